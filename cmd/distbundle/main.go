package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	derrors "github.com/provide-io/distbundle/pkg/errors"
	"github.com/provide-io/distbundle/pkg/logging"
	"github.com/provide-io/distbundle/pkg/plugin"
)

var (
	logLevel   string
	verbose    bool
	configPath string
	rootCmd    *cobra.Command
)

var logger = hclog.NewNullLogger()

var closeLog = func() error { return nil }

// invalidArgsError marks command line usage errors.
type invalidArgsError struct {
	err error
}

func (e *invalidArgsError) Error() string { return e.err.Error() }
func (e *invalidArgsError) Unwrap() error { return e.err }

func getBuilderTimestamp() string {
	// Try to get vcs.time from build info
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	// Fallback to binary modification time
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "distbundle",
		Short:         "Assemble native application bundles",
		Long:          `Assemble native application bundles from a prepared java app folder and the launcher resources of a JDK`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			out, closeFn, err := logging.OpenOutput()
			closeLog = closeFn
			logger = logging.NewLogger("distbundle", logging.ResolveLevel(logLevel, verbose), out)
			if err != nil {
				logger.Warn("⚠️ Logging to file disabled", "error", err)
			}
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &invalidArgsError{err: err}
	})

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output, lowers the default log level to debug")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (yaml, json or toml)")

	cmd.AddCommand(
		newNativeAppCmd(),
		newPackCmd(),
		newTempKeystoreCmd(),
		newSignCmd(),
		newBundlersCmd(),
		newVerifyCmd(),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "distbundle %s\n", plugin.EngineVersion)
			fmt.Fprintf(cmd.OutOrStdout(), "Built: %s\n", getBuilderTimestamp())
		},
	}
}

func exitCode(err error) int {
	var argsErr *invalidArgsError
	if errors.As(err, &argsErr) {
		return derrors.ExitInvalidArgs
	}
	return derrors.ExitCode(err)
}

func main() {
	rootCmd = newRootCmd()
	err := rootCmd.Execute()
	if closeErr := closeLog(); closeErr != nil {
		fmt.Fprintln(os.Stderr, closeErr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
