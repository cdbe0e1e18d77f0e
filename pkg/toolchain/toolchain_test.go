package toolchain

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/provide-io/distbundle/pkg/errors"
	"github.com/provide-io/distbundle/pkg/platform"
)

type recordingRunner struct {
	commands []Command
	err      error
}

func (r *recordingRunner) Run(_ context.Context, cmd Command) error {
	r.commands = append(r.commands, cmd)
	return r.err
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
}

func fakeJDK(t *testing.T, tools ...string) string {
	t.Helper()
	jdk := filepath.Join(t.TempDir(), "jdk")
	for _, tool := range tools {
		touch(t, filepath.Join(jdk, "bin", tool+platform.HostExecutableSuffix()))
	}
	return jdk
}

func testLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  "toolchain_test",
		Level: hclog.Trace,
	})
}

func TestLocate(t *testing.T) {
	jdk := fakeJDK(t, ToolJava, ToolKeytool)

	path, err := Locate(jdk, ToolKeytool)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(jdk, "bin", ToolKeytool+platform.HostExecutableSuffix()), path)

	_, err = Locate(jdk, ToolJarsigner)
	require.Error(t, err)
	assert.True(t, errors.Is(err, derrors.ErrToolMissing))
}

func TestLocateJreInsideJdk(t *testing.T) {
	jdk := fakeJDK(t, ToolJava, ToolJarsigner)
	jre := filepath.Join(jdk, "jre")
	touch(t, filepath.Join(jre, "bin", ToolJava+platform.HostExecutableSuffix()))

	assert.Equal(t, filepath.Join(jdk, "bin"), BinFolder(jre))

	path, err := Locate(jre, ToolJarsigner)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(jdk, "bin", ToolJarsigner+platform.HostExecutableSuffix()), path)
}

func TestSubstitute(t *testing.T) {
	args := []string{"-keystore", "{keystore}", "-alias", "x"}
	assert.Equal(t, []string{"-keystore", "/tmp/ks.jks", "-alias", "x"}, Substitute(args, KeystorePlaceholder, "/tmp/ks.jks"))
	assert.Equal(t, "{keystore}", args[1], "input is not modified")
}

func TestSplitArgs(t *testing.T) {
	fields, err := SplitArgs(`-storepass changeit -dname "cn=Demo, o=Org" {JAR} alias`)
	require.NoError(t, err)
	assert.Equal(t, []string{"-storepass", "changeit", "-dname", "cn=Demo, o=Org", "{JAR}", "alias"}, fields)

	fields, err = SplitArgs("   ")
	require.NoError(t, err)
	assert.Empty(t, fields)

	_, err = SplitArgs(`"unterminated`)
	assert.Error(t, err)
}

func TestCreateKeystore(t *testing.T) {
	jdk := fakeJDK(t, ToolKeytool)
	keystore := filepath.Join(t.TempDir(), "sub", "keystore.jks")
	runner := &recordingRunner{}

	err := CreateKeystore(context.Background(), runner, KeystoreOptions{
		JDKPath:  jdk,
		Keystore: keystore,
		Args:     []string{"-genkeypair", "-keystore", KeystorePlaceholder},
		Verbose:  true,
	}, testLogger())
	require.NoError(t, err)

	require.Len(t, runner.commands, 1)
	cmd := runner.commands[0]
	assert.Equal(t, filepath.Join(jdk, "bin", ToolKeytool+platform.HostExecutableSuffix()), cmd.Path)
	assert.Equal(t, []string{"-v", "-genkeypair", "-keystore", keystore}, cmd.Args)
}

func TestCreateKeystoreRefusesOverwrite(t *testing.T) {
	jdk := fakeJDK(t, ToolKeytool)
	keystore := filepath.Join(t.TempDir(), "keystore.jks")
	touch(t, keystore)
	runner := &recordingRunner{}

	opts := KeystoreOptions{JDKPath: jdk, Keystore: keystore, Args: []string{"-genkeypair"}}
	err := CreateKeystore(context.Background(), runner, opts, testLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, derrors.ErrKeystoreExists))
	assert.Empty(t, runner.commands)

	opts.Overwrite = true
	require.NoError(t, CreateKeystore(context.Background(), runner, opts, testLogger()))
	assert.Len(t, runner.commands, 1)
}

func TestCreateKeystoreRequiresArgs(t *testing.T) {
	err := CreateKeystore(context.Background(), &recordingRunner{}, KeystoreOptions{
		JDKPath:  fakeJDK(t, ToolKeytool),
		Keystore: filepath.Join(t.TempDir(), "ks.jks"),
	}, testLogger())
	require.Error(t, err)
	assert.Equal(t, derrors.KindConfiguration, derrors.KindOf(err))
}

func TestSignJars(t *testing.T) {
	jdk := fakeJDK(t, ToolJarsigner)
	app := t.TempDir()
	main := filepath.Join(app, "app.jar")
	touch(t, main)
	touch(t, filepath.Join(app, "lib", "a.jar"))
	touch(t, filepath.Join(app, "lib", "notes.txt"))
	touch(t, filepath.Join(app, "lib", "nested", "b.jar"))

	runner := &recordingRunner{}
	signed, err := SignJars(context.Background(), runner, SignOptions{
		JDKPath:   jdk,
		Files:     []string{main},
		LibFolder: filepath.Join(app, "lib"),
		Args:      []string{"-keystore", "ks.jks", JarPlaceholder, "alias"},
		Verbose:   true,
	}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{main, filepath.Join(app, "lib", "a.jar")}, signed)
	require.Len(t, runner.commands, 2)
	assert.Equal(t, []string{"-verbose", "-keystore", "ks.jks", main, "alias"}, runner.commands[0].Args)
}

func TestSignJarsStopsOnFailure(t *testing.T) {
	jdk := fakeJDK(t, ToolJarsigner)
	app := t.TempDir()
	touch(t, filepath.Join(app, "a.jar"))
	touch(t, filepath.Join(app, "b.jar"))

	runner := &recordingRunner{err: derrors.Execution("run jarsigner", derrors.ErrProcessFailed)}
	signed, err := SignJars(context.Background(), runner, SignOptions{
		JDKPath:   jdk,
		LibFolder: app,
		Args:      []string{JarPlaceholder},
	}, testLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, derrors.ErrProcessFailed))
	assert.Empty(t, signed)
	assert.Len(t, runner.commands, 1)
}

func TestExecRunnerExitCode(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("no sh available")
	}
	runner := NewExecRunner(testLogger())

	require.NoError(t, runner.Run(context.Background(), Command{Path: sh, Args: []string{"-c", "exit 0"}}))

	err = runner.Run(context.Background(), Command{Path: sh, Args: []string{"-c", "exit 3"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, derrors.ErrProcessFailed))
	assert.Equal(t, derrors.KindExecution, derrors.KindOf(err))

	err = runner.Run(context.Background(), Command{Path: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
	assert.False(t, errors.Is(err, derrors.ErrProcessFailed))
}
