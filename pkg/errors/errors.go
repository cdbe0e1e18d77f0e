// Package errors defines the failure taxonomy of the bundle assembly engine.
package errors

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors ⚙️
	ErrSourceEmpty          = errors.New("❌ no resources found to work on")
	ErrInvalidCoordinate    = errors.New("❌ bundler source does not match group:artifact:version[:classifier]")
	ErrPluginUnresolved     = errors.New("❌ failed to resolve plugin source")
	ErrNoBundler            = errors.New("❌ no bundler found to build with")
	ErrRequirementsNotMet   = errors.New("❌ bundler requirements not met")
	ErrRequiredFileMissing  = errors.New("❌ required support file missing")
	ErrUnsupportedLayout    = errors.New("❌ unsupported packaging archive layout")
	ErrArchitectureMismatch = errors.New("❌ architecture mismatch")
	ErrConfigFileMissing    = errors.New("❌ launcher configuration file not found")
	ErrDuplicateClassifier  = errors.New("❌ artifact for this classifier was already produced in this run")
	ErrRuntimeMissing       = errors.New("❌ runtime not found")
	ErrToolMissing          = errors.New("❌ toolchain executable not found")
	ErrKeystoreExists       = errors.New("❌ keystore already exists")

	// Execution errors 🚀
	ErrProcessFailed = errors.New("❌ external process failed")
	ErrBundlerFailed = errors.New("❌ problem while creating the native app bundle")
)

// Kind classifies a fatal failure.
type Kind int

const (
	// KindConfiguration covers missing files, bad coordinates, duplicate classifiers,
	// architecture mismatches and missing bundlers.
	KindConfiguration Kind = iota + 1
	// KindExecution covers failed processes and I/O errors in required steps.
	KindExecution
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindExecution:
		return "execution"
	default:
		return "unknown"
	}
}

// Exit codes for the CLI
const (
	ExitConfiguration = 102
	ExitExecution     = 104
	ExitInvalidArgs   = 105
)

// Error is a fatal engine failure carrying its kind, the failed operation
// and the original cause.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Configuration wraps err as a configuration failure.
func Configuration(op string, err error) error {
	return &Error{Kind: KindConfiguration, Op: op, Err: err}
}

// Execution wraps err as an execution failure.
func Execution(op string, err error) error {
	return &Error{Kind: KindExecution, Op: op, Err: err}
}

// Configurationf builds a configuration failure wrapping sentinel with extra detail.
func Configurationf(sentinel error, format string, args ...interface{}) error {
	return &Error{Kind: KindConfiguration, Err: fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))}
}

// KindOf returns the kind of the outermost engine error in the chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case KindConfiguration:
		return ExitConfiguration
	case KindExecution:
		return ExitExecution
	default:
		return 1
	}
}
