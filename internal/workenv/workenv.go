// Package workenv resolves the default locations the engine works in
package workenv

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Environment overrides
const (
	EnvCacheDir   = "DISTBUNDLE_CACHE_DIR"
	EnvRepository = "DISTBUNDLE_REPOSITORY"
)

// Default folder names below the build directory
const (
	JavaAppFolder   = "distbundle/java-app"
	NativeAppFolder = "distbundle/native-app"
	ScratchFolder   = "distbundle-tmp"
)

// GetCacheRoot returns the root cache directory
func GetCacheRoot() string {
	// Check environment variable first
	if cacheDir := os.Getenv(EnvCacheDir); cacheDir != "" {
		return cacheDir
	}

	// Use platform-specific defaults
	switch runtime.GOOS {
	case "darwin":
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, "Library", "Caches", "distbundle")
		}
	case "linux":
		if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
			return filepath.Join(xdgCache, "distbundle")
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".cache", "distbundle")
		}
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "distbundle", "cache")
		}
	}

	// Fallback to temp directory
	return filepath.Join(os.TempDir(), "distbundle", "cache")
}

// GetRepositoryRoot returns the local plugin repository root
func GetRepositoryRoot() string {
	if repo := os.Getenv(EnvRepository); repo != "" {
		return repo
	}
	return filepath.Join(GetCacheRoot(), "repository")
}

// GetBuiltinDir returns where descriptor archives of compiled-in bundlers are written
func GetBuiltinDir() string {
	return filepath.Join(GetCacheRoot(), "builtin")
}

// Layout holds the default folders of one build directory
type Layout struct {
	BuildDir  string
	JavaApp   string
	NativeApp string
	Scratch   string
}

// LayoutFor returns the default folders below buildDir
func LayoutFor(buildDir string) Layout {
	return Layout{
		BuildDir:  buildDir,
		JavaApp:   filepath.Join(buildDir, filepath.FromSlash(JavaAppFolder)),
		NativeApp: filepath.Join(buildDir, filepath.FromSlash(NativeAppFolder)),
		Scratch:   filepath.Join(buildDir, ScratchFolder),
	}
}

// CreateDirs creates each directory with its mode, 0755 when unset
func CreateDirs(dirs []DirectorySpec) error {
	for _, dir := range dirs {
		mode := dir.Mode
		if mode == 0 {
			mode = 0755
		}

		if err := os.MkdirAll(dir.Path, os.FileMode(mode)); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir.Path, err)
		}
	}

	return nil
}

// DirectorySpec specifies a directory to create
type DirectorySpec struct {
	Path string
	Mode uint32
}
