//
// SPDX-FileCopyrightText: Copyright (c) 2025 provide.io llc. All rights reserved.
// SPDX-License-Identifier: Apache-2.0
//

// Package jdkpackager builds native application bundles from the launcher
// binaries shipped inside a JDK's packager module.
package jdkpackager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/panjf2000/ants/v2"

	"github.com/provide-io/distbundle/pkg/binfmt"
	derrors "github.com/provide-io/distbundle/pkg/errors"
	"github.com/provide-io/distbundle/pkg/fsutil"
	"github.com/provide-io/distbundle/pkg/launchercfg"
	"github.com/provide-io/distbundle/pkg/platform"
	"github.com/provide-io/distbundle/pkg/spi"
	"github.com/provide-io/distbundle/pkg/toolchain"
)

// Packaging module and legacy support archive names
const (
	PackagerModule = "jdk.packager.jmod"
	LegacyArchive  = "ant-javafx.jar"
)

// Internal parameters understood by the bundler
const (
	ParamStampResources = "stampResources"
	ParamReplaceApp     = "replaceApp"
	ParamLauncherMode   = "launcherMode"
	ParamCopyWorkers    = "copyWorkers"
)

// Layout is the packaging archive layout of a toolchain.
type Layout int

const (
	LayoutModern Layout = iota + 1
	LayoutLegacy
)

const defaultCopyWorkers = 4

// Bundler assembles bundles for one target platform.
type Bundler struct {
	profile profile
}

func (b *Bundler) ID() string {
	return ID
}

func (b *Bundler) TargetPlatform() platform.Target {
	return b.profile.target
}

func (b *Bundler) CreatableOn(host platform.OS) bool {
	return host == b.profile.target.OS
}

func (b *Bundler) Help() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s): uses %s from %s\n", ID, b.profile.target, b.profile.launcher, PackagerModule)
	fmt.Fprintf(&sb, "  %s=true|false    stamp version info and icon into launchers (windows, default true)\n", ParamStampResources)
	fmt.Fprintf(&sb, "  %s=true|false        delete an existing app folder before copying (default false)\n", ParamReplaceApp)
	fmt.Fprintf(&sb, "  %s=<octal>         file mode of copied launchers\n", ParamLauncherMode)
	fmt.Fprintf(&sb, "  %s=<n>              parallel launcher copies (default %d)\n", ParamCopyWorkers, defaultCopyWorkers)
	return sb.String()
}

// CheckRequirements verifies a bundled runtime matches the 64-bit launchers.
func (b *Bundler) CheckRequirements(_ context.Context, req *spi.BundleRequest, _ spi.Tools, logger hclog.Logger) error {
	if strings.TrimSpace(req.ToolchainPath) == "" {
		return derrors.Configurationf(derrors.ErrRequirementsNotMet, "no JDK configured")
	}
	if !req.WithRuntime {
		return nil
	}

	java := filepath.Join(req.RuntimePath, "bin", executableName(toolchain.ToolJava, b.profile.target.OS))
	result := binfmt.ProbeFor(b.profile.target.OS, java)
	logger.Debug("🔍 Probed runtime", "path", java, "class", result.Class.String(), "recognized", result.Recognized)
	if result.Class != binfmt.Bit64 {
		return derrors.Configurationf(derrors.ErrRequirementsNotMet,
			"provided runtime does not match expected bit architecture, detected %s instead of 64-bit at %s", result.Class, java)
	}
	return nil
}

// BundleApp builds {outputBase}/{platform}/ with the app folder, shared
// libraries, launchers, their configuration and optionally the runtime.
func (b *Bundler) BundleApp(ctx context.Context, req *spi.BundleRequest, tools spi.Tools, logger hclog.Logger) (*spi.Result, error) {
	outputDir := filepath.Join(req.OutputBaseFolder, b.profile.target.String())
	appDir := filepath.Join(outputDir, "app")
	result := &spi.Result{OutputFolder: outputDir}

	if err := b.prepareApp(req, appDir, tools, logger); err != nil {
		return nil, err
	}

	binaries, err := b.extract(ctx, req, tools, logger)
	if err != nil {
		return nil, err
	}

	logger.Debug("📚 Copying shared libraries", "from", binaries, "pattern", b.profile.libraries)
	if copied, err := tools.CopySingleLevel(binaries, outputDir, b.profile.libraries); err != nil {
		result.Warn("copy shared libraries", err)
	} else {
		logger.Debug("📚 Copied shared libraries", "count", len(copied))
	}

	launcher := filepath.Join(binaries, b.profile.launcher)
	probe := binfmt.ProbeFor(b.profile.target.OS, launcher)
	logger.Debug("🔍 Probed launcher", "path", launcher, "class", probe.Class.String(), "recognized", probe.Recognized)
	if probe.Class != binfmt.Bit64 {
		return nil, derrors.Configurationf(derrors.ErrArchitectureMismatch,
			"launcher %s is %s, please provide a 64-bit JDK", launcher, probe.Class)
	}

	copied, err := b.copyLaunchers(req, launcher, outputDir, result, logger)
	if err != nil {
		return nil, err
	}

	for _, spec := range req.Launchers {
		resolved, err := launchercfg.Resolve(spec, logger)
		if err != nil {
			return nil, err
		}
		cfgPath := filepath.Join(appDir, spec.Filename+".cfg")
		if err := os.WriteFile(cfgPath, []byte(resolved.Text), fsutil.FilePerms); err != nil {
			return nil, derrors.Execution("write launcher configuration", err)
		}
		logger.Debug("📝 Wrote launcher configuration", "path", cfgPath, "source", string(resolved.Source))
		result.ConfigFiles = append(result.ConfigFiles, cfgPath)
	}

	if b.profile.stampable && paramBool(req, ParamStampResources, true) {
		for i, spec := range req.Launchers {
			if copied[i] == "" {
				continue
			}
			if err := stampResources(copied[i], spec, req.Version, logger); err != nil {
				result.Warn("stamp resources "+filepath.Base(copied[i]), err)
			}
		}
	}

	if req.WithRuntime {
		runtimeDir := filepath.Join(outputDir, "runtime")
		logger.Info("☕ Copying runtime", "from", req.RuntimePath, "to", runtimeDir)
		if err := os.MkdirAll(runtimeDir, fsutil.DirPerms); err != nil {
			result.Warn("copy runtime", err)
		} else if err := tools.CopyRecursive(req.RuntimePath, runtimeDir); err != nil {
			result.Warn("copy runtime", err)
		} else {
			result.RuntimeDir = runtimeDir
		}
	}

	logger.Info("✅ Native app bundle created", "output", outputDir, "launchers", len(result.Launchers), "warnings", len(result.Warnings))
	return result, nil
}

func (b *Bundler) prepareApp(req *spi.BundleRequest, appDir string, tools spi.Tools, logger hclog.Logger) error {
	if paramBool(req, ParamReplaceApp, false) {
		logger.Debug("🧹 Replacing existing app folder", "path", appDir)
		if err := tools.DeleteRecursive(appDir); err != nil {
			return derrors.Execution("replace app folder", err)
		}
	}
	if err := os.MkdirAll(appDir, fsutil.DirPerms); err != nil {
		return derrors.Execution("create app folder", fmt.Errorf("not possible to create output folder %s: %w", appDir, err))
	}

	logger.Debug("📁 Copying application", "from", req.SourceFolder, "to", appDir)
	if err := tools.CopyRecursive(req.SourceFolder, appDir); err != nil {
		return derrors.Execution("copy application", err)
	}
	return nil
}

// DetectLayout reports the packaging layout of a toolchain.
func DetectLayout(toolchainPath string) Layout {
	if _, err := os.Lstat(filepath.Join(toolchainPath, "jmods")); err == nil {
		return LayoutModern
	}
	return LayoutLegacy
}

// extract unpacks the packager module into the scratch folder and returns the
// folder holding the platform binaries.
func (b *Bundler) extract(ctx context.Context, req *spi.BundleRequest, tools spi.Tools, logger hclog.Logger) (string, error) {
	if DetectLayout(req.ToolchainPath) == LayoutLegacy {
		candidates := []string{
			filepath.Join(req.ToolchainPath, "lib", LegacyArchive),
			filepath.Join(filepath.Dir(filepath.Clean(req.ToolchainPath)), "lib", LegacyArchive),
		}
		for _, c := range candidates {
			if fsutil.Exists(c) {
				logger.Debug("🔍 Found legacy packaging archive", "path", c)
				return "", derrors.Configurationf(derrors.ErrUnsupportedLayout, "%s found, but only toolchains with a jmods folder are supported", c)
			}
		}
		return "", derrors.Configurationf(derrors.ErrRequiredFileMissing, "%s, please make sure to have JavaFX installed", LegacyArchive)
	}

	module := filepath.Join(req.ToolchainPath, "jmods", PackagerModule)
	if !fsutil.Exists(module) {
		return "", derrors.Configurationf(derrors.ErrRequiredFileMissing, "missing JMOD file %s", module)
	}

	tempDir, err := filepath.Abs(req.TempWorkfolder)
	if err != nil {
		tempDir = req.TempWorkfolder
	}
	cmd := toolchain.Command{
		Path: filepath.Join(req.ToolchainPath, "bin", toolchain.ToolJmod+platform.HostExecutableSuffix()),
		Args: []string{"extract", "--dir", tempDir, module},
		Dir:  req.OutputBaseFolder,
	}
	logger.Info("📦 Extracting packager module", "command", cmd.String())
	if err := tools.Run(ctx, cmd); err != nil {
		return "", fmt.Errorf("could not extract JMOD %s: %w", PackagerModule, err)
	}

	return filepath.Join(tempDir, "classes", "com", "oracle", "tools", "packager", b.profile.subdir), nil
}

// copyLaunchers copies the verified launcher once per spec. It returns the
// destination per spec, empty where the copy failed.
func (b *Bundler) copyLaunchers(req *spi.BundleRequest, launcher, outputDir string, result *spi.Result, logger hclog.Logger) ([]string, error) {
	n := len(req.Launchers)
	dests := make([]string, n)
	errs := make([]error, n)
	if n == 0 {
		return dests, nil
	}

	mode, err := fsutil.ParseOctalString(req.Param(ParamLauncherMode, ""), b.profile.launcherMode)
	if err != nil {
		return nil, derrors.Configuration("parse "+ParamLauncherMode, err)
	}

	workers := defaultCopyWorkers
	if v, err := strconv.Atoi(req.Param(ParamCopyWorkers, "")); err == nil && v > 0 {
		workers = v
	}
	if workers > n {
		workers = n
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, derrors.Execution("create copy pool", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, spec := range req.Launchers {
		i, spec := i, spec
		dest := filepath.Join(outputDir, launcherFileName(spec, b.profile.target.OS))
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if err := fsutil.CopyFileMode(launcher, dest, mode); err != nil {
				errs[i] = err
				return
			}
			dests[i] = dest
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	for i, spec := range req.Launchers {
		if errs[i] != nil {
			logger.Warn("⚠️ Failed to copy launcher", "launcher", spec.Filename, "error", errs[i])
			result.Warn("copy launcher "+spec.Filename, errs[i])
			continue
		}
		logger.Debug("🚀 Copied launcher", "path", dests[i])
		result.Launchers = append(result.Launchers, dests[i])
	}
	return dests, nil
}

// launcherFileName is {filename}.{ext}, with the platform extension when
// none is set and no dot when the platform has none.
func launcherFileName(spec spi.LauncherSpec, target platform.OS) string {
	ext := strings.TrimPrefix(strings.TrimSpace(spec.Extension), ".")
	if ext == "" {
		ext = platform.ExecutableExtension(target)
	}
	if ext == "" {
		return spec.Filename
	}
	return spec.Filename + "." + ext
}

func executableName(name string, target platform.OS) string {
	if ext := platform.ExecutableExtension(target); ext != "" {
		return name + "." + ext
	}
	return name
}

func paramBool(req *spi.BundleRequest, key string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(req.Param(key, "")))
	if err != nil {
		return fallback
	}
	return v
}
