// Package packer turns a bundle folder into a single packed artifact,
// at most once per classifier and run.
package packer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/distbundle/pkg/archive"
	derrors "github.com/provide-io/distbundle/pkg/errors"
	"github.com/provide-io/distbundle/pkg/ledger"
)

// DefaultClassifier replaces an empty classifier.
const DefaultClassifier = "java-app-bundle"

// ArtifactSink receives packed artifacts that should be published with the build.
type ArtifactSink interface {
	Attach(path, kind, classifier string) error
}

// LogSink reports attached artifacts in the log only.
type LogSink struct {
	Logger hclog.Logger
}

func (s LogSink) Attach(path, kind, classifier string) error {
	s.Logger.Info("📎 Attached artifact", "path", path, "type", kind, "classifier", classifier)
	return nil
}

// Options configure one Pack call.
type Options struct {
	Folder     string
	BuildDir   string
	FinalName  string
	Classifier string
	Format     archive.Format
	// Sink is only used when Attach is set.
	Attach bool
	Sink   ArtifactSink
}

// Result describes the packed artifact.
type Result struct {
	Path       string
	Classifier string
	Entries    int
	Attached   bool
}

// Pack claims the classifier in the run ledger, then packs opts.Folder into
// {BuildDir}/{FinalName}-{Classifier}.{ext}, replacing an older file.
func Pack(l *ledger.Ledger, opts Options, logger hclog.Logger) (*Result, error) {
	classifier := strings.TrimSpace(opts.Classifier)
	if classifier == "" {
		logger.Warn("⚠️ Provided target bundle artifact classifier was invalid, using default one", "classifier", DefaultClassifier)
		classifier = DefaultClassifier
	}
	if strings.TrimSpace(opts.FinalName) == "" {
		return nil, derrors.Configuration("pack bundle", fmt.Errorf("no final name configured"))
	}
	format := opts.Format
	if format == "" {
		format = archive.DefaultFormat
	}

	// the ledger is checked before packing so duplicates fail fast
	if err := l.Claim(classifier); err != nil {
		return nil, err
	}

	dest := filepath.Join(opts.BuildDir, fmt.Sprintf("%s-%s.%s", opts.FinalName, classifier, format.Extension()))
	if _, err := os.Stat(dest); err == nil {
		logger.Debug("🧹 Removing previous packed bundle", "path", dest)
		if err := os.Remove(dest); err != nil {
			return nil, derrors.Execution("pack bundle", fmt.Errorf("could not remove %s: %w", dest, err))
		}
	}

	entries, err := archive.Pack(opts.Folder, dest, format, logger)
	if err != nil {
		return nil, derrors.Execution("pack bundle", fmt.Errorf("could not create packed bundle: %w", err))
	}
	logger.Info("🗜️ Created packed bundle", "path", dest, "entries", entries)

	result := &Result{Path: dest, Classifier: classifier, Entries: entries}
	if opts.Attach && opts.Sink != nil {
		logger.Info("📎 Attaching packed bundle to project artifacts", "classifier", classifier)
		if err := opts.Sink.Attach(dest, format.Extension(), classifier); err != nil {
			return result, derrors.Execution("attach packed bundle", err)
		}
		result.Attached = true
	}
	return result, nil
}
