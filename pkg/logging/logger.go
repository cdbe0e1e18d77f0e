package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Environment switches
const (
	EnvJSONLog  = "DISTBUNDLE_JSON_LOG"
	EnvLogLevel = "DISTBUNDLE_LOG_LEVEL"
	EnvLogPath  = "DISTBUNDLE_LOG_PATH"
)

// Prefix marks every non-JSON log line of the engine
const Prefix = "📦 "

// NewLogger creates a new hclog logger with standard settings
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	// Determine if JSON format should be used
	jsonFormat := os.Getenv(EnvJSONLog) == "1"

	// Add prefix for non-JSON output
	if !jsonFormat {
		output = NewPrefixWriter(Prefix, output)
	}

	opts := &hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	}

	return hclog.New(opts)
}

// GetLogLevel returns the configured log level from environment
func GetLogLevel() string {
	level := os.Getenv(EnvLogLevel)
	if level == "" {
		level = "warn" // Default to warn for production safety
	}
	return level
}

// ResolveLevel picks the effective level: an explicit flag wins, then the
// environment, and verbose lowers the default to debug.
func ResolveLevel(flag string, verbose bool) string {
	if flag = strings.TrimSpace(flag); flag != "" {
		return flag
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		return level
	}
	if verbose {
		return "debug"
	}
	return GetLogLevel()
}

// OpenOutput returns stderr, or stderr and the file named by
// DISTBUNDLE_LOG_PATH. The returned close function is never nil.
func OpenOutput() (io.Writer, func() error, error) {
	path := os.Getenv(EnvLogPath)
	if path == "" {
		return os.Stderr, func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return os.Stderr, func() error { return nil }, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return os.Stderr, func() error { return nil }, fmt.Errorf("failed to open log file: %w", err)
	}
	return io.MultiWriter(os.Stderr, f), f.Close, nil
}
