package main

import (
	"github.com/spf13/cobra"

	"github.com/provide-io/distbundle/pkg"
	"github.com/provide-io/distbundle/pkg/platform"
)

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <bundle-folder>",
		Short: "Check the layout and launchers of a created bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper(cmd)
			if err != nil {
				return err
			}
			target, err := platform.ParseTarget(v.GetString("target"))
			if err != nil {
				return &invalidArgsError{err: err}
			}
			launchers, _ := cmd.Flags().GetStringArray("launcher")

			return pkg.VerifyBundleWithLogger(pkg.VerifyOptions{
				Folder:        args[0],
				Target:        target,
				Launchers:     launchers,
				ExpectRuntime: v.GetBool("expect_runtime"),
			}, logger)
		},
	}

	f := cmd.Flags()
	f.String("target", platform.Host().String(), "Target platform of the bundle, os-arch")
	f.StringArray("launcher", nil, "Launcher file expected in the bundle folder, repeatable")
	f.Bool("expect-runtime", false, "Require a 64-bit runtime in runtime/")
	return cmd
}
