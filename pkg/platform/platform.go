// Package platform names target operating systems and architectures and
// derives them from the running host.
package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// OS is a target operating system token as used in bundler coordinates.
type OS string

const (
	Windows OS = "windows"
	Linux   OS = "linux"
	Mac     OS = "mac"
	Unknown OS = ""
)

// Arch is a target architecture token.
type Arch string

const (
	X64 Arch = "x64"
	X86 Arch = "x86"
)

// Target identifies one platform request, e.g. "windows-x64".
type Target struct {
	OS   OS
	Arch Arch
}

func (t Target) String() string {
	return string(t.OS) + "-" + string(t.Arch)
}

// ParseTarget parses "<os>-<arch>".
func ParseTarget(s string) (Target, error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(s)), "-", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Target{}, fmt.Errorf("invalid platform identifier %q, expected <os>-<arch>", s)
	}
	return Target{OS: OS(parts[0]), Arch: Arch(parts[1])}, nil
}

// DetectOS classifies an operating system name by substring match on its
// lower-cased form. "darwin" is checked first as it contains "win".
func DetectOS(name string) OS {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "darwin"):
		return Mac
	case strings.Contains(n, "win"):
		return Windows
	case strings.Contains(n, "nix"), strings.Contains(n, "nux"):
		return Linux
	case strings.Contains(n, "mac"):
		return Mac
	default:
		return Unknown
	}
}

// DetectArch maps an architecture string to x64 when it mentions 64, x86 otherwise.
func DetectArch(arch string) Arch {
	if strings.Contains(arch, "64") {
		return X64
	}
	return X86
}

// Host returns the target describing the running engine.
func Host() Target {
	return Target{OS: DetectOS(runtime.GOOS), Arch: DetectArch(runtime.GOARCH)}
}

// ExecutableExtension returns the native executable extension without dot.
func ExecutableExtension(os OS) string {
	if os == Windows {
		return "exe"
	}
	return ""
}

// HostExecutableSuffix returns ".exe" on windows build hosts.
func HostExecutableSuffix() string {
	if Host().OS == Windows {
		return ".exe"
	}
	return ""
}

// SharedLibraryPattern returns the glob matching native shared libraries.
func SharedLibraryPattern(os OS) string {
	switch os {
	case Windows:
		return "*.dll"
	case Mac:
		return "*.dylib"
	default:
		return "*.so"
	}
}
