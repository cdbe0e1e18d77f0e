package launchercfg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "github.com/provide-io/distbundle/pkg/errors"
	"github.com/provide-io/distbundle/pkg/spi"
)

func strPtr(s string) *string { return &s }

func TestResolve(t *testing.T) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "launchercfg_test",
		Level: hclog.Trace,
	})

	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "launcher.ini")
	require.NoError(t, os.WriteFile(cfgFile, []byte("[Application]\r\napp.name=demo\n"), 0o644))

	testCases := []struct {
		name           string
		spec           spi.LauncherSpec
		expectedText   string
		expectedSource Source
	}{
		{
			name:           "file_wins_over_inline",
			spec:           spi.LauncherSpec{Filename: "demo", ConfigurationFile: cfgFile, Configuration: strPtr("ignored")},
			expectedText:   "[Application]\napp.name=demo",
			expectedSource: SourceFile,
		},
		{
			name:           "inline_is_sanitized",
			spec:           spi.LauncherSpec{Filename: "demo", Configuration: strPtr("  A\r\nB\r  \n C ")},
			expectedText:   "A\nB\nC",
			expectedSource: SourceInline,
		},
		{
			name:           "inline_trailing_breaks_dropped",
			spec:           spi.LauncherSpec{Filename: "demo", Configuration: strPtr("A\n\n")},
			expectedText:   "A",
			expectedSource: SourceInline,
		},
		{
			name:           "inline_blank_lines_dropped",
			spec:           spi.LauncherSpec{Filename: "demo", Configuration: strPtr("\n  [Application]\r\n\t\r\n\napp.name=demo  \n   ")},
			expectedText:   "[Application]\napp.name=demo",
			expectedSource: SourceInline,
		},
		{
			name:           "empty_inline_is_still_inline",
			spec:           spi.LauncherSpec{Filename: "demo", Configuration: strPtr("")},
			expectedText:   "",
			expectedSource: SourceInline,
		},
		{
			name:           "default_template",
			spec:           spi.LauncherSpec{Filename: "demo"},
			expectedText:   DefaultTemplate(),
			expectedSource: SourceTemplate,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resolved, err := Resolve(tc.spec, logger)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedText, resolved.Text)
			assert.Equal(t, tc.expectedSource, resolved.Source)
		})
	}
}

func TestResolveMissingFile(t *testing.T) {
	logger := hclog.NewNullLogger()
	missing := filepath.Join(t.TempDir(), "nope.ini")

	_, err := Resolve(spi.LauncherSpec{Filename: "demo", ConfigurationFile: missing, Configuration: strPtr("fallback")}, logger)
	require.Error(t, err)
	assert.True(t, errors.Is(err, derrors.ErrConfigFileMissing))
	assert.Equal(t, derrors.KindConfiguration, derrors.KindOf(err))
}

func TestDefaultTemplateSections(t *testing.T) {
	tmpl := DefaultTemplate()
	for _, section := range []string{"[Application]", "[JVMOptions]", "[JVMUserOptions]", "[ArgOptions]"} {
		assert.Contains(t, tmpl, section)
	}
}
