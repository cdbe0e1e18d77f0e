package execlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  "execlog_test",
		Level: hclog.Trace,
	})
}

func TestFileName(t *testing.T) {
	l := New(GoalNativeApp, "default-cli")
	assert.Equal(t, "distbundle.native-app-execution.default-cli.properties", l.FileName())

	generated := New(GoalPack, "")
	assert.Len(t, generated.ExecutionID, 36)
	assert.True(t, strings.HasPrefix(generated.FileName(), "distbundle.java-app-execution."))
}

func TestWriteAndRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "build")
	l := New(GoalNativeApp, "run1")
	l.Set("jdkPath", `C:\jdk`)
	l.SetBool("verbose", true)
	l.SetInt("launchers", 2)
	l.SetPath("outputFolder", "relative")

	path, err := l.Write(dir, testLogger())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, l.FileName()), path)

	values, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, `C:\jdk`, values["jdkPath"])
	assert.Equal(t, "true", values["verbose"])
	assert.Equal(t, "2", values["launchers"])
	assert.True(t, filepath.IsAbs(values["outputFolder"]))
}

func TestWriteReplacesEarlierFile(t *testing.T) {
	dir := t.TempDir()
	l := New(GoalPack, "same")
	l.Set("a", "1")
	path, err := l.Write(dir, testLogger())
	require.NoError(t, err)

	l = New(GoalPack, "same")
	l.Set("b", "2")
	_, err = l.Write(dir, testLogger())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "a = 1")
	assert.Contains(t, string(data), "b = 2")
}
