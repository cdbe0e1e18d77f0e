//
// SPDX-FileCopyrightText: Copyright (c) 2025 provide.io llc. All rights reserved.
// SPDX-License-Identifier: Apache-2.0
//

package plugin

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	derrors "github.com/provide-io/distbundle/pkg/errors"
	"github.com/provide-io/distbundle/pkg/platform"
	"github.com/provide-io/distbundle/pkg/spi"
)

// Descriptor records what one loader run resolved and used.
type Descriptor struct {
	Coordinate Coordinate
	Archives   []string
	// Discovered holds the ids of every bundler found, in enumeration order.
	Discovered []string
	// Selected is the id of the bundler that ran, empty when none did.
	Selected string
}

// Loader resolves a plugin and runs the first matching bundler.
type Loader struct {
	Repository Repository
	Tools      spi.Tools

	// observeScope is called with the scope before it is used; tests hook it.
	observeScope func(*Scope)
}

// RunRequest selects the plugin and carries the assembly request.
type RunRequest struct {
	Coordinate Coordinate
	// Flavor restricts selection to the bundler with this id, case-insensitive.
	Flavor  string
	Request *spi.BundleRequest
}

// Run resolves req.Coordinate, opens a scope over its archives and runs the
// first bundler whose id matches the flavor, or the first bundler at all
// without flavor. The scope is closed on every path.
func (l *Loader) Run(ctx context.Context, req RunRequest, logger hclog.Logger) (*Descriptor, *spi.Result, error) {
	desc := &Descriptor{Coordinate: req.Coordinate}

	logger.Debug("🔍 Resolving bundler source", "coordinate", req.Coordinate.String())
	archives, err := l.Repository.Resolve(ctx, req.Coordinate)
	if err != nil {
		return desc, nil, derrors.Configuration("resolve plugin", fmt.Errorf("%w %s: %v", derrors.ErrPluginUnresolved, req.Coordinate, err))
	}
	if len(archives) == 0 {
		return desc, nil, derrors.Configurationf(derrors.ErrPluginUnresolved, "%s", req.Coordinate)
	}
	desc.Archives = archives

	scope, err := OpenScope(archives, logger)
	if err != nil {
		return desc, nil, derrors.Configuration("open plugin scope", err)
	}
	defer func() {
		if cerr := scope.Close(); cerr != nil {
			logger.Debug("Failed to close plugin scope", "error", cerr)
		}
	}()
	if l.observeScope != nil {
		l.observeScope(scope)
	}

	flavor := strings.TrimSpace(req.Flavor)
	var selected spi.NativeAppBundler
	for _, b := range scope.Bundlers() {
		desc.Discovered = append(desc.Discovered, b.ID())
		if selected != nil {
			continue
		}
		if flavor != "" && !strings.EqualFold(flavor, b.ID()) {
			logger.Debug("Found bundler did not match requested id", "id", b.ID(), "flavor", flavor)
			continue
		}
		selected = b
	}
	if selected == nil {
		return desc, nil, derrors.Configurationf(derrors.ErrNoBundler, "coordinate %s, flavor %q", req.Coordinate, flavor)
	}
	desc.Selected = selected.ID()

	host := platform.Host().OS
	if !selected.CreatableOn(host) {
		logger.Warn("⚠️ Bundler does not declare support for this build host", "id", selected.ID(), "host", host)
	}

	logger.Info("🔧 Using bundler", "id", selected.ID(), "target", selected.TargetPlatform().String())

	logger.Debug("🔍 Running bundler requirements checks")
	if err := selected.CheckRequirements(ctx, req.Request, l.Tools, logger); err != nil {
		return desc, nil, wrapBundlerFailure(err)
	}

	logger.Debug("🏗️ Running creation of native app bundle")
	result, err := selected.BundleApp(ctx, req.Request, l.Tools, logger)
	if err != nil {
		return desc, nil, wrapBundlerFailure(err)
	}

	for _, w := range result.Warnings {
		logger.Warn("⚠️ Bundle step degraded", "step", w.Step, "error", w.Err)
	}
	return desc, result, nil
}

// wrapBundlerFailure keeps the kind of the cause so exit codes stay meaningful.
func wrapBundlerFailure(err error) error {
	kind := derrors.KindOf(err)
	if kind == 0 {
		kind = derrors.KindExecution
	}
	return &derrors.Error{Kind: kind, Err: fmt.Errorf("%w: %w", derrors.ErrBundlerFailed, err)}
}
