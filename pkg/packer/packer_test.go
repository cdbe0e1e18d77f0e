package packer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/distbundle/pkg/archive"
	derrors "github.com/provide-io/distbundle/pkg/errors"
	"github.com/provide-io/distbundle/pkg/ledger"
)

func testLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:  "packer_test",
		Level: hclog.Trace,
	})
}

type recordingSink struct {
	attached []string
}

func (s *recordingSink) Attach(path, kind, classifier string) error {
	s.attached = append(s.attached, kind+":"+classifier+":"+filepath.Base(path))
	return nil
}

func setup(t *testing.T) (*ledger.Ledger, string, string) {
	t.Helper()
	build := t.TempDir()
	folder := filepath.Join(build, "distbundle", "java-app")
	require.NoError(t, os.MkdirAll(folder, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "app.jar"), []byte("jar"), 0o644))

	l, err := ledger.Open(filepath.Join(build, ledger.DefaultFileName))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l, build, folder
}

func TestPackDefaultClassifier(t *testing.T) {
	l, build, folder := setup(t)
	sink := &recordingSink{}

	result, err := Pack(l, Options{
		Folder:    folder,
		BuildDir:  build,
		FinalName: "demo-1.0",
		Attach:    true,
		Sink:      sink,
	}, testLogger())
	require.NoError(t, err)

	assert.Equal(t, DefaultClassifier, result.Classifier)
	assert.Equal(t, filepath.Join(build, "demo-1.0-java-app-bundle.zip"), result.Path)
	assert.Equal(t, 1, result.Entries)
	assert.True(t, result.Attached)
	assert.Equal(t, []string{"zip:java-app-bundle:demo-1.0-java-app-bundle.zip"}, sink.attached)

	has, err := l.Has(DefaultClassifier)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestPackDuplicateClassifier(t *testing.T) {
	l, build, folder := setup(t)
	opts := Options{Folder: folder, BuildDir: build, FinalName: "demo", Classifier: "bundle", Format: archive.FormatTarGz}

	_, err := Pack(l, opts, testLogger())
	require.NoError(t, err)

	_, err = Pack(l, opts, testLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, derrors.ErrDuplicateClassifier))
	assert.Equal(t, derrors.KindConfiguration, derrors.KindOf(err))

	opts.Classifier = "other"
	result, err := Pack(l, opts, testLogger())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(build, "demo-other.tar.gz"), result.Path)
	assert.False(t, result.Attached)
}

func TestPackReplacesOlderFile(t *testing.T) {
	l, build, folder := setup(t)
	dest := filepath.Join(build, "demo-x.zip")
	require.NoError(t, os.WriteFile(dest, []byte("stale"), 0o644))

	_, err := Pack(l, Options{Folder: folder, BuildDir: build, FinalName: "demo", Classifier: "x"}, testLogger())
	require.NoError(t, err)

	names, err := archive.List(dest, archive.FormatZip)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.jar"}, names)
}

func TestPackMissingFolder(t *testing.T) {
	l, build, _ := setup(t)
	_, err := Pack(l, Options{Folder: filepath.Join(build, "missing"), BuildDir: build, FinalName: "demo"}, testLogger())
	require.Error(t, err)
	assert.Equal(t, derrors.KindExecution, derrors.KindOf(err))
}
