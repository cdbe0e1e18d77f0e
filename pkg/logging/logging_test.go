package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixWriter(t *testing.T) {
	var buf bytes.Buffer
	pw := NewPrefixWriter("> ", &buf)

	n, err := pw.Write([]byte("first\nsec"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Equal(t, "> first\n", buf.String())

	_, err = pw.Write([]byte("ond\nthird"))
	require.NoError(t, err)
	assert.Equal(t, "> first\n> second\n", buf.String())

	require.NoError(t, pw.Flush())
	assert.Equal(t, "> first\n> second\n> third\n", buf.String())
	require.NoError(t, pw.Flush())
	assert.Equal(t, "> first\n> second\n> third\n", buf.String())
}

func TestNewLoggerPrefix(t *testing.T) {
	t.Setenv(EnvJSONLog, "")
	var buf bytes.Buffer
	logger := NewLogger("distbundle", "info", &buf)
	logger.Info("hello", "key", "value")
	logger.Debug("hidden")

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, Prefix), out)
	assert.Contains(t, out, "key=value")
	assert.NotContains(t, out, "hidden")
}

func TestNewLoggerJSON(t *testing.T) {
	t.Setenv(EnvJSONLog, "1")
	var buf bytes.Buffer
	NewLogger("distbundle", "info", &buf).Info("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), buf.String())
}

func TestResolveLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	assert.Equal(t, "warn", ResolveLevel("", false))
	assert.Equal(t, "debug", ResolveLevel("", true))
	assert.Equal(t, "trace", ResolveLevel("trace", true))

	t.Setenv(EnvLogLevel, "error")
	assert.Equal(t, "error", ResolveLevel("", true))
	assert.Equal(t, "error", GetLogLevel())
}

func TestOpenOutput(t *testing.T) {
	t.Setenv(EnvLogPath, "")
	w, closeFn, err := OpenOutput()
	require.NoError(t, err)
	assert.Equal(t, os.Stderr, w)
	require.NoError(t, closeFn())

	path := filepath.Join(t.TempDir(), "logs", "distbundle.log")
	t.Setenv(EnvLogPath, path)
	w, closeFn, err = OpenOutput()
	require.NoError(t, err)
	_, err = w.Write([]byte("line\n"))
	require.NoError(t, err)
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(data))
}
