// Package nativeapp prepares a native app bundle run and hands it to the
// bundler selected through the plugin loader.
package nativeapp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/distbundle/internal/workenv"
	_ "github.com/provide-io/distbundle/pkg/bundler/jdkpackager"
	derrors "github.com/provide-io/distbundle/pkg/errors"
	"github.com/provide-io/distbundle/pkg/execlog"
	"github.com/provide-io/distbundle/pkg/fsutil"
	"github.com/provide-io/distbundle/pkg/platform"
	"github.com/provide-io/distbundle/pkg/plugin"
	"github.com/provide-io/distbundle/pkg/spi"
	"github.com/provide-io/distbundle/pkg/toolchain"
)

// Options configure one native app run.
type Options struct {
	SourceFolder        string `mapstructure:"source_folder"`
	OutputBaseFolder    string `mapstructure:"output_base_folder"`
	TempWorkfolder      string `mapstructure:"temp_workfolder"`
	CleanupOutputFolder bool   `mapstructure:"cleanup_output_folder"`

	JDKPath     string `mapstructure:"jdk_path"`
	WithRuntime bool   `mapstructure:"with_runtime"`
	RuntimePath string `mapstructure:"runtime_path"`

	Launchers []spi.LauncherSpec `mapstructure:"launchers"`

	BundlerSource   string `mapstructure:"bundler_source"`
	VersionOverride string `mapstructure:"override_bundler_source_version"`
	Flavor          string `mapstructure:"bundler_flavor"`
	ClientOS        string `mapstructure:"client_os"`
	ClientArch      string `mapstructure:"client_arch"`

	InternalParameters map[string]string `mapstructure:"internal_parameters"`

	// FinalName names the default launcher.
	FinalName string `mapstructure:"final_name"`
	// Version is stamped into launchers that support it.
	Version string `mapstructure:"version"`
	Verbose bool   `mapstructure:"verbose"`

	// BuildDir receives the execution log; no log is written when empty.
	BuildDir    string `mapstructure:"build_dir"`
	ExecutionID string `mapstructure:"execution_id"`
}

// Outcome is what a successful or failed run produced.
type Outcome struct {
	Descriptor *plugin.Descriptor
	Result     *spi.Result
	LogPath    string
}

// Engine runs native app builds. The zero value uses the local plugin
// repository, the compiled-in bundlers and real child processes.
type Engine struct {
	Repository plugin.Repository
	Runner     toolchain.Runner
}

// Run executes opts with the default engine.
func Run(ctx context.Context, opts Options, logger hclog.Logger) (*Outcome, error) {
	return (&Engine{}).Run(ctx, opts, logger)
}

// Run validates and prepares the folders, resolves the runtime, launchers and
// plugin coordinate, then runs the loader. The execution log is written even
// when the run fails.
func (e *Engine) Run(ctx context.Context, opts Options, logger hclog.Logger) (*Outcome, error) {
	outcome := &Outcome{}
	log := execlog.New(execlog.GoalNativeApp, opts.ExecutionID)

	err := e.run(ctx, &opts, outcome, log, logger)
	recordOptions(log, opts, outcome, err)

	if opts.BuildDir != "" {
		path, logErr := log.Write(opts.BuildDir, logger)
		if logErr != nil {
			logger.Warn("⚠️ Could not write execution log", "error", logErr)
		}
		outcome.LogPath = path
	}
	return outcome, err
}

func (e *Engine) run(ctx context.Context, opts *Options, outcome *Outcome, log *execlog.Log, logger hclog.Logger) error {
	empty, err := fsutil.IsEmptyDir(opts.SourceFolder)
	if err != nil {
		return derrors.Execution("inspect source folder", err)
	}
	if empty {
		return derrors.Configurationf(derrors.ErrSourceEmpty, "%s, make sure to create the java app bundle first", opts.SourceFolder)
	}

	if err := prepareFolders(*opts, logger); err != nil {
		return err
	}

	if opts.WithRuntime {
		runtimePath, err := resolveRuntime(opts.JDKPath, opts.RuntimePath, logger)
		if err != nil {
			return err
		}
		opts.RuntimePath = runtimePath
	}

	coordinate, err := plugin.ResolveCoordinate(plugin.CoordinateOptions{
		Source:          opts.BundlerSource,
		VersionOverride: opts.VersionOverride,
		ClientOS:        opts.ClientOS,
		ClientArch:      opts.ClientArch,
	}, logger)
	if err != nil {
		return err
	}
	log.Set("bundlerSource.coordinate", coordinate.String())

	target, ok := plugin.TargetOf(coordinate)
	if !ok {
		target = plugin.DefaultTarget(opts.ClientOS, opts.ClientArch)
	}

	launchers := opts.Launchers
	if len(launchers) == 0 {
		logger.Debug("🚀 Adding default native launcher entry", "filename", opts.FinalName)
		launchers = []spi.LauncherSpec{DefaultLauncher(opts.FinalName, target.OS)}
	}

	req := &spi.BundleRequest{
		SourceFolder:       opts.SourceFolder,
		OutputBaseFolder:   opts.OutputBaseFolder,
		TempWorkfolder:     opts.TempWorkfolder,
		Platform:           target,
		ToolchainPath:      opts.JDKPath,
		WithRuntime:        opts.WithRuntime,
		RuntimePath:        opts.RuntimePath,
		Launchers:          launchers,
		InternalParameters: opts.InternalParameters,
		Verbose:            opts.Verbose,
		Version:            opts.Version,
	}

	loader := &plugin.Loader{Repository: e.repository(logger), Tools: spi.NewTools(e.runner(logger))}
	desc, result, err := loader.Run(ctx, plugin.RunRequest{Coordinate: coordinate, Flavor: opts.Flavor, Request: req}, logger)
	outcome.Descriptor = desc
	outcome.Result = result
	return err
}

func (e *Engine) repository(logger hclog.Logger) plugin.Repository {
	if e.Repository != nil {
		return e.Repository
	}
	return plugin.ChainRepository{
		&plugin.LocalRepository{Root: workenv.GetRepositoryRoot(), Logger: logger},
		&plugin.BuiltinRepository{Dir: workenv.GetBuiltinDir()},
	}
}

func (e *Engine) runner(logger hclog.Logger) toolchain.Runner {
	if e.Runner != nil {
		return e.Runner
	}
	return toolchain.NewExecRunner(logger)
}

func prepareFolders(opts Options, logger hclog.Logger) error {
	logger.Debug("📁 Prepare target area", "path", opts.OutputBaseFolder)
	if opts.CleanupOutputFolder && fsutil.Exists(opts.OutputBaseFolder) {
		logger.Debug("🧹 Deleting recursively", "path", opts.OutputBaseFolder)
		if err := fsutil.DeleteRecursive(opts.OutputBaseFolder); err != nil {
			return derrors.Execution("cleanup output folder", fmt.Errorf("not possible to cleanup output folder %s: %w", opts.OutputBaseFolder, err))
		}
	}

	dirs := []workenv.DirectorySpec{{Path: opts.OutputBaseFolder}, {Path: opts.TempWorkfolder}}
	if err := workenv.CreateDirs(dirs); err != nil {
		return derrors.Execution("prepare folders", err)
	}
	return nil
}

// resolveRuntime returns the runtime to bundle. Without an explicit path a
// legacy toolchain's jre folder or the newest jre-* folder next to a modular
// toolchain is used.
func resolveRuntime(jdkPath, runtimePath string, logger hclog.Logger) (string, error) {
	if strings.TrimSpace(runtimePath) == "" {
		logger.Debug("☕ Runtime was not set, trying to autodetect")
		if fsutil.IsDir(filepath.Join(jdkPath, "jmods")) {
			logger.Debug("☕ Found modular toolchain layout")
			parent := filepath.Dir(filepath.Clean(jdkPath))
			matches, _ := filepath.Glob(filepath.Join(parent, "jre-*"))
			sort.Strings(matches)
			if len(matches) == 0 {
				return "", derrors.Configurationf(derrors.ErrRuntimeMissing, "no jre-* folder next to %s", jdkPath)
			}
			runtimePath = matches[len(matches)-1]
		} else {
			logger.Debug("☕ Found legacy toolchain layout")
			runtimePath = filepath.Join(jdkPath, "jre")
		}
	}

	if _, err := os.Stat(runtimePath); err != nil {
		abs, absErr := filepath.Abs(runtimePath)
		if absErr != nil {
			abs = runtimePath
		}
		return "", derrors.Configurationf(derrors.ErrRuntimeMissing, "could not find runtime at location %s", abs)
	}
	logger.Debug("☕ Using runtime", "path", runtimePath)
	return runtimePath, nil
}

// DefaultLauncher is used when no launcher is configured.
func DefaultLauncher(finalName string, target platform.OS) spi.LauncherSpec {
	spec := spi.LauncherSpec{Filename: finalName}
	if target == platform.Windows {
		spec.Extension = "exe"
	}
	return spec
}

func recordOptions(log *execlog.Log, opts Options, outcome *Outcome, err error) {
	log.SetBool("verbose", opts.Verbose)
	log.SetPath("sourceFolder", opts.SourceFolder)
	log.SetPath("outputBaseFolder", opts.OutputBaseFolder)
	log.SetPath("tempWorkfolder", opts.TempWorkfolder)
	log.SetBool("cleanupOutputFolder", opts.CleanupOutputFolder)
	log.Set("jdkPath", opts.JDKPath)
	log.SetBool("withJRE", opts.WithRuntime)
	log.Set("jrePath", opts.RuntimePath)
	log.SetInt("nativeLaunchers.entries", len(opts.Launchers))
	log.Set("bundlerSource", opts.BundlerSource)
	log.Set("overrideBundlerSourceVersion", opts.VersionOverride)
	log.Set("bundlerFlavor", opts.Flavor)
	log.Set("clientOS", opts.ClientOS)
	log.Set("clientArch", opts.ClientArch)
	for k, v := range opts.InternalParameters {
		log.Set("internalParameters."+k, v)
	}

	if d := outcome.Descriptor; d != nil {
		log.Set("bundler.selected", d.Selected)
		log.Set("bundler.discovered", strings.Join(d.Discovered, ","))
	}
	if r := outcome.Result; r != nil {
		log.SetPath("outputFolder", r.OutputFolder)
		log.SetInt("launchers.created", len(r.Launchers))
		log.SetInt("warnings", len(r.Warnings))
	}
	if err != nil {
		log.Set("result", "failure")
		log.Set("error", err.Error())
		return
	}
	log.Set("result", "success")
}
