// Package launchercfg resolves the configuration text written next to each
// native launcher.
package launchercfg

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/hashicorp/go-hclog"

	derrors "github.com/provide-io/distbundle/pkg/errors"
	"github.com/provide-io/distbundle/pkg/spi"
)

//go:embed configurationTemplate.ini
var defaultTemplate string

// Source names the tier a configuration was taken from.
type Source string

const (
	SourceFile     Source = "file"
	SourceInline   Source = "inline"
	SourceTemplate Source = "template"
)

// Resolved is the configuration text for one launcher.
type Resolved struct {
	Text   string
	Source Source
}

var lineBreaks = regexp.MustCompile(`(\r\n)|(\r)|(\n)`)

// DefaultTemplate returns the built-in launcher configuration.
func DefaultTemplate() string {
	return defaultTemplate
}

// Resolve picks the configuration for spec. A configuration file wins over
// inline text, which wins over the built-in template. A configured file that
// does not exist is a configuration failure.
func Resolve(spec spi.LauncherSpec, logger hclog.Logger) (Resolved, error) {
	if spec.ConfigurationFile != "" {
		logger.Debug("📄 Reading configuration file for launcher", "launcher", spec.Filename, "path", spec.ConfigurationFile)
		text, err := readFile(spec.ConfigurationFile)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Text: text, Source: SourceFile}, nil
	}

	if spec.Configuration != nil {
		logger.Debug("📝 Using inline configuration for launcher", "launcher", spec.Filename)
		return Resolved{Text: sanitizeInline(*spec.Configuration), Source: SourceInline}, nil
	}

	logger.Debug("📋 Using default configuration for launcher", "launcher", spec.Filename)
	return Resolved{Text: defaultTemplate, Source: SourceTemplate}, nil
}

func readFile(path string) (string, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", derrors.Configurationf(derrors.ErrConfigFileMissing, "%s", path)
		}
		return "", derrors.Execution("read launcher configuration", err)
	}
	if info.IsDir() {
		return "", derrors.Configurationf(derrors.ErrConfigFileMissing, "%s is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", derrors.Execution("read launcher configuration", fmt.Errorf("failed to read %s: %w", path, err))
	}

	lines := lineBreaks.Split(string(data), -1)
	// a terminated last line does not start another one
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return strings.Join(lines, "\n"), nil
}

// sanitizeInline trims every line and drops the ones left blank.
func sanitizeInline(text string) string {
	var lines []string
	for _, line := range lineBreaks.Split(text, -1) {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
