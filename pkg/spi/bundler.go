// Package spi defines the contract between the engine and native app bundlers.
package spi

import (
	"context"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/distbundle/pkg/platform"
)

// LauncherSpec describes one native launcher to place in the bundle.
type LauncherSpec struct {
	Filename string `mapstructure:"filename"`
	// Extension without dot; empty selects the platform default.
	Extension string `mapstructure:"extension"`
	// Configuration is inline configuration text, nil when not given.
	Configuration *string `mapstructure:"configuration"`
	// ConfigurationFile wins over Configuration when both are set.
	ConfigurationFile string `mapstructure:"configuration_file"`
	// Icon is an optional .ico file stamped into windows launchers.
	Icon string `mapstructure:"icon"`
}

// BundleRequest carries everything a bundler needs for one assembly. Bundlers
// treat it as read-only.
type BundleRequest struct {
	SourceFolder       string
	OutputBaseFolder   string
	TempWorkfolder     string
	Platform           platform.Target
	ToolchainPath      string
	WithRuntime        bool
	RuntimePath        string
	Launchers          []LauncherSpec
	InternalParameters map[string]string
	Verbose            bool
	// Version is stamped into launcher resources where supported.
	Version string
}

// Param returns an internal parameter or fallback when unset. An exact key
// wins over a key differing only in case, as config files lower-case keys.
func (r *BundleRequest) Param(key, fallback string) string {
	if v, ok := r.InternalParameters[key]; ok {
		return v
	}
	for k, v := range r.InternalParameters {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return fallback
}

// Degradation is a best-effort step that failed without stopping the assembly.
type Degradation struct {
	Step string
	Err  error
}

func (d Degradation) String() string {
	return d.Step + ": " + d.Err.Error()
}

// Result describes the produced bundle.
type Result struct {
	// OutputFolder is {outputBase}/{platform}.
	OutputFolder string
	Launchers    []string
	ConfigFiles  []string
	RuntimeDir   string
	Warnings     []Degradation
}

// Warn records a degraded step.
func (r *Result) Warn(step string, err error) {
	r.Warnings = append(r.Warnings, Degradation{Step: step, Err: err})
}

// NativeAppBundler assembles a native application bundle for one target platform.
type NativeAppBundler interface {
	// ID identifies the implementation and is matched against the flavor filter.
	ID() string
	TargetPlatform() platform.Target
	// CreatableOn reports whether the bundler can run on a build host with the given OS.
	CreatableOn(host platform.OS) bool
	CheckRequirements(ctx context.Context, req *BundleRequest, tools Tools, logger hclog.Logger) error
	BundleApp(ctx context.Context, req *BundleRequest, tools Tools, logger hclog.Logger) (*Result, error)
	// Help describes the internal parameters the bundler understands.
	Help() string
}
