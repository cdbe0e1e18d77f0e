package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-hclog"
	"mvdan.cc/sh/v3/shell"

	derrors "github.com/provide-io/distbundle/pkg/errors"
)

// Command is one external process invocation.
type Command struct {
	Path string
	Args []string
	// Dir is the working directory, the current one when empty.
	Dir string
}

func (c Command) String() string {
	return strings.TrimSpace(c.Path + " " + strings.Join(c.Args, " "))
}

// Runner spawns a command and blocks until it exits.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands as child processes sharing the engine's stdio.
type ExecRunner struct {
	Logger hclog.Logger
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner that inherits the engine's stdout and stderr.
func NewExecRunner(logger hclog.Logger) *ExecRunner {
	return &ExecRunner{Logger: logger, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run starts cmd and waits for it. Non-zero exit is reported as ErrProcessFailed.
// No deadline is applied; the context only lets an outer caller cancel.
func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	logger := r.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	logger.Info("🚀 Executing command", "path", c.Path)
	logger.Debug("🚀 Full command with args", "args", c.Args)

	if err := cmd.Start(); err != nil {
		return derrors.Execution("run "+c.Path, fmt.Errorf("failed to start process: %w", err))
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.Info("⏹️ Process exited", "code", exitErr.ExitCode())
			return derrors.Execution("run "+c.Path, fmt.Errorf("%w: exit code %d", derrors.ErrProcessFailed, exitErr.ExitCode()))
		}
		return derrors.Execution("run "+c.Path, fmt.Errorf("process error: %w", err))
	}

	logger.Debug("✅ Process completed successfully", "path", c.Path)
	return nil
}

// SplitArgs splits a shell-style argument string into fields, honoring
// quotes and expanding environment variables.
func SplitArgs(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	fields, err := shell.Fields(s, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("failed to parse argument string %q: %w", s, err)
	}
	return fields, nil
}

// Substitute replaces every argument equal to placeholder (case-insensitive)
// with value.
func Substitute(args []string, placeholder, value string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		if strings.EqualFold(arg, placeholder) {
			out[i] = value
			continue
		}
		out[i] = arg
	}
	return out
}

func containsFold(args []string, flag string) bool {
	for _, arg := range args {
		if strings.EqualFold(strings.TrimSpace(arg), flag) {
			return true
		}
	}
	return false
}
