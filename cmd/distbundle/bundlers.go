package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/provide-io/distbundle/pkg"
)

func newBundlersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bundlers",
		Short: "List the compiled-in bundlers and their parameters",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, info := range pkg.ListBundlers() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n\n", info.Key, info.Help)
			}
		},
	}
}
