package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/provide-io/distbundle/internal/workenv"
	"github.com/provide-io/distbundle/pkg/nativeapp"
)

func newNativeAppCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "native-app",
		Short: "Create a native app bundle for the target platform",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper(cmd)
			if err != nil {
				return err
			}
			pairs, _ := cmd.Flags().GetStringArray("param")
			opts, err := nativeAppOptions(v, pairs)
			if err != nil {
				return err
			}

			outcome, err := nativeapp.Run(cmd.Context(), opts, logger)
			if err != nil {
				return err
			}
			for _, w := range outcome.Result.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			fmt.Fprintln(cmd.OutOrStdout(), outcome.Result.OutputFolder)
			return nil
		},
	}

	f := cmd.Flags()
	f.String("build-dir", "target", "Build directory holding the default folders and logs")
	f.String("source-folder", "", "Prepared java app folder (default {build-dir}/distbundle/java-app)")
	f.String("output-base-folder", "", "Native app output folder (default {build-dir}/distbundle/native-app)")
	f.String("temp-workfolder", "", "Scratch folder (default {build-dir}/distbundle-tmp)")
	f.Bool("cleanup-output-folder", false, "Delete the output folder before building")
	f.String("jdk-path", os.Getenv("JAVA_HOME"), "JDK providing the launcher resources")
	f.Bool("with-runtime", true, "Bundle a Java runtime")
	f.String("runtime-path", "", "Runtime to bundle, autodetected when empty")
	f.String("bundler-source", "", "Plugin coordinate group:artifact:version[:classifier]")
	f.String("override-bundler-source-version", "", "Replace the version of the plugin coordinate")
	f.String("bundler-flavor", "", "Only use the bundler with this id")
	f.String("client-os", "", "Target OS of the default coordinate (linux, mac, windows)")
	f.String("client-arch", "", "Target architecture of the default coordinate (x64, x86)")
	f.StringArray("param", nil, "Internal bundler parameter key=value, repeatable")
	f.String("final-name", "", "Name of the default launcher (default: name of the folder holding the build directory)")
	f.String("app-version", "", "Application version stamped into launchers")
	f.String("execution-id", "", "Execution id used in the execution log name, random when empty")
	return cmd
}

func nativeAppOptions(v *viper.Viper, pairs []string) (nativeapp.Options, error) {
	var opts nativeapp.Options
	if err := v.Unmarshal(&opts); err != nil {
		return opts, &invalidArgsError{err: fmt.Errorf("failed to parse configuration: %w", err)}
	}

	buildDir := orDefault(v.GetString("build_dir"), "target")
	layout := workenv.LayoutFor(buildDir)
	opts.BuildDir = buildDir
	opts.SourceFolder = orDefault(opts.SourceFolder, layout.JavaApp)
	opts.OutputBaseFolder = orDefault(opts.OutputBaseFolder, layout.NativeApp)
	opts.TempWorkfolder = orDefault(opts.TempWorkfolder, layout.Scratch)
	opts.Version = orDefault(v.GetString("app_version"), opts.Version)
	opts.FinalName = orDefault(opts.FinalName, defaultFinalName(buildDir))

	params, err := parseParams(opts.InternalParameters, pairs)
	if err != nil {
		return opts, err
	}
	opts.InternalParameters = params
	return opts, nil
}

// defaultFinalName is the name of the project folder holding buildDir.
func defaultFinalName(buildDir string) string {
	abs, err := filepath.Abs(buildDir)
	if err != nil {
		abs = buildDir
	}
	return filepath.Base(filepath.Dir(abs))
}
