package jdkpackager

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/tc-hib/winres"
	"github.com/tc-hib/winres/version"

	"github.com/provide-io/distbundle/pkg/spi"
)

// stampResources writes version info and the optional icon of spec into the
// PE launcher at exePath.
func stampResources(exePath string, spec spi.LauncherSpec, appVersion string, logger hclog.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("resource writer failed: %v", r)
		}
	}()

	inputFile, err := os.Open(exePath)
	if err != nil {
		return fmt.Errorf("failed to open launcher for reading: %w", err)
	}
	rs, loadErr := winres.LoadFromEXE(inputFile)
	if loadErr != nil {
		logger.Trace("Creating new resource set (no existing resources)", "launcher", exePath)
		rs = &winres.ResourceSet{}
	}
	if err := inputFile.Close(); err != nil {
		return fmt.Errorf("failed to close input file: %w", err)
	}

	var vi version.Info
	if appVersion != "" {
		vi.SetFileVersion(appVersion)
		vi.SetProductVersion(appVersion)
	}
	if err := vi.Set(version.LangDefault, version.ProductName, spec.Filename); err != nil {
		return fmt.Errorf("failed to set product name: %w", err)
	}
	if err := vi.Set(version.LangDefault, version.OriginalFilename, spec.Filename); err != nil {
		return fmt.Errorf("failed to set original filename: %w", err)
	}
	rs.SetVersionInfo(vi)

	if spec.Icon != "" {
		iconFile, err := os.Open(spec.Icon)
		if err != nil {
			return fmt.Errorf("failed to open icon: %w", err)
		}
		icon, err := winres.LoadICO(iconFile)
		iconFile.Close()
		if err != nil {
			return fmt.Errorf("failed to load icon %s: %w", spec.Icon, err)
		}
		if err := rs.SetIcon(winres.ID(1), icon); err != nil {
			return fmt.Errorf("failed to set icon: %w", err)
		}
	}

	// Explicit closes, the temporary file replaces the launcher afterwards
	src, err := os.Open(exePath)
	if err != nil {
		return fmt.Errorf("failed to open launcher (2nd pass): %w", err)
	}
	tmpPath := exePath + ".tmp"
	dst, err := os.Create(tmpPath)
	if err != nil {
		src.Close()
		return fmt.Errorf("failed to create temporary output file: %w", err)
	}

	if err := rs.WriteToEXE(dst, src); err != nil {
		dst.Close()
		src.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write resources to launcher: %w", err)
	}
	if err := dst.Close(); err != nil {
		src.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err := src.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close input file: %w", err)
	}

	info, err := os.Stat(exePath)
	if err == nil {
		_ = os.Chmod(tmpPath, info.Mode().Perm())
	}
	if err := os.Rename(tmpPath, exePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace launcher: %w", err)
	}

	logger.Debug("🏷️ Stamped launcher resources", "launcher", exePath, "version", appVersion, "icon", spec.Icon)
	return nil
}
