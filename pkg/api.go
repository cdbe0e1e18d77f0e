// Package pkg is the public entry point of the bundle assembly engine.
package pkg

import (
	"context"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/distbundle/pkg/ledger"
	"github.com/provide-io/distbundle/pkg/nativeapp"
	"github.com/provide-io/distbundle/pkg/packer"
	"github.com/provide-io/distbundle/pkg/spi"
	"github.com/provide-io/distbundle/pkg/toolchain"
)

// BuildNativeApp creates a native app bundle with the default engine.
func BuildNativeApp(ctx context.Context, opts nativeapp.Options, logger hclog.Logger) (*nativeapp.Outcome, error) {
	return nativeapp.Run(ctx, opts, logger)
}

// PackBundle packs a bundle folder once per classifier of the run ledger.
func PackBundle(l *ledger.Ledger, opts packer.Options, logger hclog.Logger) (*packer.Result, error) {
	return packer.Pack(l, opts, logger)
}

// CreateKeystore runs keytool as a child process.
func CreateKeystore(ctx context.Context, opts toolchain.KeystoreOptions, logger hclog.Logger) error {
	return toolchain.CreateKeystore(ctx, toolchain.NewExecRunner(logger), opts, logger)
}

// SignJars runs jarsigner as a child process for each jar.
func SignJars(ctx context.Context, opts toolchain.SignOptions, logger hclog.Logger) ([]string, error) {
	return toolchain.SignJars(ctx, toolchain.NewExecRunner(logger), opts, logger)
}

// BundlerInfo describes one compiled-in bundler.
type BundlerInfo struct {
	Key    string
	ID     string
	Target string
	Help   string
}

// ListBundlers returns the compiled-in bundlers sorted by key.
func ListBundlers() []BundlerInfo {
	var infos []BundlerInfo
	for _, key := range spi.Keys() {
		b, err := spi.Lookup(key)
		if err != nil {
			continue
		}
		infos = append(infos, BundlerInfo{
			Key:    key,
			ID:     b.ID(),
			Target: b.TargetPlatform().String(),
			Help:   strings.TrimRight(b.Help(), "\n"),
		})
	}
	return infos
}
