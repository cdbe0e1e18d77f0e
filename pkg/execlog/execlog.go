// Package execlog records the settings of one engine run as a properties
// file next to the build output.
package execlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/magiconair/properties"
)

// Goals
const (
	GoalNativeApp = "native-app"
	GoalPack      = "java-app"
)

// Log collects key/value settings for one execution.
type Log struct {
	Goal        string
	ExecutionID string
	props       *properties.Properties
}

// New returns an empty log. An empty executionID gets a random one.
func New(goal, executionID string) *Log {
	if strings.TrimSpace(executionID) == "" {
		executionID = uuid.NewString()
	}
	props := properties.NewProperties()
	props.DisableExpansion = true
	return &Log{Goal: goal, ExecutionID: executionID, props: props}
}

// Set records value under key, replacing any previous value.
func (l *Log) Set(key, value string) {
	// Set only fails on circular references, expansion is disabled
	_, _, _ = l.props.Set(key, value)
}

func (l *Log) SetBool(key string, value bool) {
	l.Set(key, strconv.FormatBool(value))
}

func (l *Log) SetInt(key string, value int) {
	l.Set(key, strconv.Itoa(value))
}

// SetPath records the absolute form of path.
func (l *Log) SetPath(key, path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	l.Set(key, path)
}

// Get returns the recorded value of key.
func (l *Log) Get(key string) (string, bool) {
	return l.props.Get(key)
}

// FileName is distbundle.<goal>-execution.<executionId>.properties.
func (l *Log) FileName() string {
	return fmt.Sprintf("distbundle.%s-execution.%s.properties", l.Goal, l.ExecutionID)
}

// Write stores the log in dir, replacing an earlier file of the same
// execution, and returns its path.
func (l *Log) Write(dir string, logger hclog.Logger) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create execution log folder: %w", err)
	}
	path := filepath.Join(dir, l.FileName())
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("could not create execution log: %w", err)
	}
	if _, err := l.props.WriteComment(f, "# ", properties.UTF8); err != nil {
		f.Close()
		return "", fmt.Errorf("could not write to execution log: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("could not write to execution log: %w", err)
	}
	logger.Debug("📝 Wrote execution log", "path", path, "entries", l.props.Len())
	return path, nil
}

// Read loads a log written by Write.
func Read(path string) (map[string]string, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("could not read execution log: %w", err)
	}
	return p.Map(), nil
}
