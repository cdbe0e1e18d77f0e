package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/provide-io/distbundle/internal/workenv"
	"github.com/provide-io/distbundle/pkg/archive"
	"github.com/provide-io/distbundle/pkg/packer"
)

func newPackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack a bundle folder into a single artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper(cmd)
			if err != nil {
				return err
			}

			buildDir := orDefault(v.GetString("build_dir"), "target")
			format, err := archive.ParseFormat(v.GetString("format"))
			if err != nil {
				return &invalidArgsError{err: err}
			}

			l, release, err := openLedger(buildDir)
			if err != nil {
				return err
			}
			defer release()

			result, err := packer.Pack(l, packer.Options{
				Folder:     orDefault(v.GetString("folder"), workenv.LayoutFor(buildDir).JavaApp),
				BuildDir:   buildDir,
				FinalName:  orDefault(v.GetString("final_name"), defaultFinalName(buildDir)),
				Classifier: v.GetString("classifier"),
				Format:     format,
				Attach:     v.GetBool("attach"),
				Sink:       packer.LogSink{Logger: logger},
			}, logger)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Path)
			return nil
		},
	}

	f := cmd.Flags()
	f.String("build-dir", "target", "Build directory receiving the packed artifact")
	f.String("folder", "", "Folder to pack (default {build-dir}/distbundle/java-app)")
	f.String("final-name", "", "Artifact base name")
	f.String("classifier", packer.DefaultClassifier, "Artifact classifier, unique per run")
	f.String("format", string(archive.DefaultFormat), "Archive format (zip, tar, tar.gz, tar.bz2)")
	f.Bool("attach", false, "Report the packed artifact as build artifact")
	return cmd
}
