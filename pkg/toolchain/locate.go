// Package toolchain locates and runs the executables shipped with a JDK.
package toolchain

import (
	"os"
	"path/filepath"

	derrors "github.com/provide-io/distbundle/pkg/errors"
	"github.com/provide-io/distbundle/pkg/platform"
)

// Tool names used by the engine
const (
	ToolJava      = "java"
	ToolJmod      = "jmod"
	ToolJarsigner = "jarsigner"
	ToolKeytool   = "keytool"
)

// BinFolder returns the folder holding the toolchain executables. When
// jdkPath points at a JRE nested inside a JDK (a java binary exists in the
// parent's bin folder), the parent's bin folder is used.
func BinFolder(jdkPath string) string {
	suffix := platform.HostExecutableSuffix()
	parentBin := filepath.Join(filepath.Dir(filepath.Clean(jdkPath)), "bin")
	if _, err := os.Lstat(filepath.Join(parentBin, ToolJava+suffix)); err == nil {
		return parentBin
	}
	return filepath.Join(jdkPath, "bin")
}

// Locate returns the absolute path of tool inside the toolchain at jdkPath.
func Locate(jdkPath, tool string) (string, error) {
	path := filepath.Join(BinFolder(jdkPath), tool+platform.HostExecutableSuffix())
	if _, err := os.Lstat(path); err != nil {
		return "", derrors.Configurationf(derrors.ErrToolMissing, "%s not found at %s, please check the configured JDK", tool, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}
