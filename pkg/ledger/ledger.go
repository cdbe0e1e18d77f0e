// Package ledger tracks which artifact classifiers were already produced
// during one build run. The ledger is a plain text file with one classifier per
// line so that separate invocations inside the same run can share it.
package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	derrors "github.com/provide-io/distbundle/pkg/errors"
)

// DefaultFileName is the ledger file created inside the build directory.
const DefaultFileName = "distbundle.java-app-executions.tmp"

var lineBreaks = regexp.MustCompile(`(\r\n)|(\r)|(\n)`)

// Ledger is an append-only set of execution identifiers backed by a file.
type Ledger struct {
	path string

	mu     sync.Mutex
	closed bool
}

// Open opens the ledger at path, creating an empty file when none exists.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, derrors.Execution("open ledger", fmt.Errorf("failed to create ledger directory: %w", err))
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o644)
	if err != nil {
		return nil, derrors.Execution("open ledger", fmt.Errorf("failed to create %s: %w", path, err))
	}
	f.Close()
	return &Ledger{path: path}, nil
}

// Path returns the backing file.
func (l *Ledger) Path() string {
	return l.path
}

// Has reports whether id was recorded.
func (l *Ledger) Has(id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.has(id)
}

// Record appends id.
func (l *Ledger) Record(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.record(id)
}

// Claim records id unless it is already present, in which case it fails
// with ErrDuplicateClassifier. Check and record happen under one lock.
func (l *Ledger) Claim(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	seen, err := l.has(id)
	if err != nil {
		return err
	}
	if seen {
		return derrors.Configurationf(derrors.ErrDuplicateClassifier, "classifier %q", normalizeID(id))
	}
	return l.record(id)
}

// Entries returns the recorded identifiers in file order.
func (l *Ledger) Entries() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read()
}

// Close ends use of the ledger and keeps the file for later invocations.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// Discard ends use of the ledger and removes its file. It is called by the
// process that owns the build run once the run is over.
func (l *Ledger) Discard() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove ledger %s: %w", l.path, err)
	}
	return nil
}

// normalizeID is how an id is stored: trimmed, without line breaks.
func normalizeID(id string) string {
	return strings.TrimSpace(lineBreaks.ReplaceAllString(id, ""))
}

func (l *Ledger) has(id string) (bool, error) {
	id = normalizeID(id)
	entries, err := l.read()
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if entry == id {
			return true, nil
		}
	}
	return false, nil
}

func (l *Ledger) record(id string) error {
	if l.closed {
		return derrors.Execution("record ledger entry", fmt.Errorf("ledger %s is closed", l.path))
	}
	id = normalizeID(id)
	if id == "" {
		return derrors.Execution("record ledger entry", fmt.Errorf("empty execution identifier"))
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return derrors.Execution("record ledger entry", err)
	}
	defer f.Close()

	if _, err := f.WriteString(id + "\n"); err != nil {
		return derrors.Execution("record ledger entry", err)
	}
	return nil
}

func (l *Ledger) read() ([]string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, derrors.Execution("read ledger", err)
	}

	var entries []string
	for _, line := range lineBreaks.Split(string(data), -1) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		entries = append(entries, line)
	}
	return entries, nil
}
