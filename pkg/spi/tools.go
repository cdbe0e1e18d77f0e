package spi

import (
	"context"

	"github.com/provide-io/distbundle/pkg/fsutil"
	"github.com/provide-io/distbundle/pkg/toolchain"
)

// Tools are the host facilities handed to bundlers.
type Tools interface {
	toolchain.Runner
	CopyRecursive(src, dst string) error
	CopySingleLevel(src, dst, pattern string) ([]string, error)
	DeleteRecursive(path string) error
}

type hostTools struct {
	runner toolchain.Runner
}

// NewTools returns Tools backed by the local filesystem and runner.
func NewTools(runner toolchain.Runner) Tools {
	return &hostTools{runner: runner}
}

func (t *hostTools) Run(ctx context.Context, cmd toolchain.Command) error {
	return t.runner.Run(ctx, cmd)
}

func (t *hostTools) CopyRecursive(src, dst string) error {
	return fsutil.CopyRecursive(src, dst)
}

func (t *hostTools) CopySingleLevel(src, dst, pattern string) ([]string, error) {
	return fsutil.CopySingleLevel(src, dst, pattern)
}

func (t *hostTools) DeleteRecursive(path string) error {
	return fsutil.DeleteRecursive(path)
}
