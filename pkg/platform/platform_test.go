package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectOS(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected OS
	}{
		{name: "windows product name", input: "Windows 10", expected: Windows},
		{name: "go windows", input: "windows", expected: Windows},
		{name: "linux", input: "Linux", expected: Linux},
		{name: "unix", input: "Unix", expected: Linux},
		{name: "mac os x", input: "Mac OS X", expected: Mac},
		{name: "darwin is not windows", input: "darwin", expected: Mac},
		{name: "unknown", input: "plan9", expected: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectOS(tt.input))
		})
	}
}

func TestDetectArch(t *testing.T) {
	assert.Equal(t, X64, DetectArch("amd64"))
	assert.Equal(t, X64, DetectArch("arm64"))
	assert.Equal(t, X86, DetectArch("386"))
	assert.Equal(t, X86, DetectArch("x86"))
}

func TestParseTarget(t *testing.T) {
	target, err := ParseTarget(" Windows-x64 ")
	require.NoError(t, err)
	assert.Equal(t, Windows, target.OS)
	assert.Equal(t, X64, target.Arch)
	assert.Equal(t, "windows-x64", target.String())

	for _, bad := range []string{"", "windows", "-x64", "linux-"} {
		_, err := ParseTarget(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestExtensionsAndPatterns(t *testing.T) {
	assert.Equal(t, "exe", ExecutableExtension(Windows))
	assert.Equal(t, "", ExecutableExtension(Linux))
	assert.Equal(t, "*.dll", SharedLibraryPattern(Windows))
	assert.Equal(t, "*.so", SharedLibraryPattern(Linux))
	assert.Equal(t, "*.dylib", SharedLibraryPattern(Mac))
}
