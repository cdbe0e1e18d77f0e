package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/provide-io/distbundle/pkg/errors"
)

func TestParseParams(t *testing.T) {
	params, err := parseParams(map[string]string{"a": "1", "b": "2"}, []string{"b=3", "c=x=y"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "3", "c": "x=y"}, params)

	_, err = parseParams(nil, []string{"novalue"})
	var argsErr *invalidArgsError
	assert.True(t, errors.As(err, &argsErr))
}

func TestNativeAppOptionsFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "distbundle.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
jdk_path: /opt/jdk
bundler_flavor: oracle-native-launcher
with_runtime: false
launchers:
  - filename: demo
    extension: exe
    configuration: "app.mainjar=demo.jar"
  - filename: tool
    configuration_file: tool.cfg
internal_parameters:
  stampResources: "false"
`), 0o644))

	configPath = cfg
	t.Cleanup(func() { configPath = "" })

	buildDir := filepath.Join(dir, "target")
	cmd := newNativeAppCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--build-dir", buildDir, "--param", "replaceApp=true", "--client-os", "linux"}))

	v, err := newViper(cmd)
	require.NoError(t, err)
	pairs, err := cmd.Flags().GetStringArray("param")
	require.NoError(t, err)
	opts, err := nativeAppOptions(v, pairs)
	require.NoError(t, err)

	assert.Equal(t, "/opt/jdk", opts.JDKPath)
	assert.Equal(t, "oracle-native-launcher", opts.Flavor)
	assert.Equal(t, "linux", opts.ClientOS)
	assert.False(t, opts.WithRuntime)
	assert.Equal(t, filepath.Join(buildDir, "distbundle", "java-app"), opts.SourceFolder)
	assert.Equal(t, filepath.Join(buildDir, "distbundle", "native-app"), opts.OutputBaseFolder)
	assert.Equal(t, filepath.Join(buildDir, "distbundle-tmp"), opts.TempWorkfolder)
	assert.Equal(t, filepath.Base(dir), opts.FinalName)

	require.Len(t, opts.Launchers, 2)
	assert.Equal(t, "demo", opts.Launchers[0].Filename)
	assert.Equal(t, "exe", opts.Launchers[0].Extension)
	require.NotNil(t, opts.Launchers[0].Configuration)
	assert.Equal(t, "app.mainjar=demo.jar", *opts.Launchers[0].Configuration)
	assert.Nil(t, opts.Launchers[1].Configuration)
	assert.Equal(t, "tool.cfg", opts.Launchers[1].ConfigurationFile)

	assert.Equal(t, "true", opts.InternalParameters["replaceApp"])
	assert.Len(t, opts.InternalParameters, 2)
}

func TestEnvOverridesFlagDefault(t *testing.T) {
	t.Setenv("DISTBUNDLE_BUNDLER_FLAVOR", "from-env")
	cmd := newNativeAppCmd()
	require.NoError(t, cmd.ParseFlags(nil))

	v, err := newViper(cmd)
	require.NoError(t, err)
	opts, err := nativeAppOptions(v, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", opts.Flavor)
}

func TestMissingConfigFile(t *testing.T) {
	configPath = filepath.Join(t.TempDir(), "missing.yaml")
	t.Cleanup(func() { configPath = "" })

	_, err := newViper(newNativeAppCmd())
	require.Error(t, err)
	assert.Equal(t, derrors.ExitInvalidArgs, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, derrors.ExitConfiguration, exitCode(derrors.Configurationf(derrors.ErrNoBundler, "x")))
	assert.Equal(t, derrors.ExitExecution, exitCode(derrors.Execution("x", errors.New("boom"))))
	assert.Equal(t, derrors.ExitInvalidArgs, exitCode(&invalidArgsError{err: errors.New("bad flag")}))
	assert.Equal(t, 1, exitCode(errors.New("other")))
}

func TestRootCommands(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"bundlers"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "oracle-native-launcher@linux-x64")
	assert.Contains(t, out.String(), "oracle-native-launcher@windows-x64")

	out.Reset()
	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "distbundle 0.3.0")

	root = newRootCmd()
	root.SetArgs([]string{"pack", "--no-such-flag"})
	err := root.Execute()
	require.Error(t, err)
	assert.Equal(t, derrors.ExitInvalidArgs, exitCode(err))
}

func TestOpenLedgerDiscards(t *testing.T) {
	t.Setenv(envRunLedger, "")
	dir := t.TempDir()
	l, release, err := openLedger(dir)
	require.NoError(t, err)
	require.NoError(t, l.Claim("x"))
	assert.FileExists(t, l.Path())
	release()
	assert.NoFileExists(t, l.Path())

	shared := filepath.Join(t.TempDir(), "shared.tmp")
	t.Setenv(envRunLedger, shared)
	l, release, err = openLedger(dir)
	require.NoError(t, err)
	require.NoError(t, l.Claim("y"))
	release()
	assert.FileExists(t, shared)
}
