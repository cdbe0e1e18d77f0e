package spi

import (
	"context"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/distbundle/pkg/platform"
)

type stubBundler struct {
	id     string
	target platform.Target
}

func (s *stubBundler) ID() string                      { return s.id }
func (s *stubBundler) TargetPlatform() platform.Target { return s.target }
func (s *stubBundler) CreatableOn(platform.OS) bool    { return true }
func (s *stubBundler) Help() string                    { return "stub" }

func (s *stubBundler) CheckRequirements(context.Context, *BundleRequest, Tools, hclog.Logger) error {
	return nil
}

func (s *stubBundler) BundleApp(context.Context, *BundleRequest, Tools, hclog.Logger) (*Result, error) {
	return &Result{}, nil
}

func TestRegisterAndLookup(t *testing.T) {
	target := platform.Target{OS: "testos", Arch: platform.X64}
	key := Key("registry-test", target)
	assert.Equal(t, "registry-test@testos-x64", key)

	Register(key, func() NativeAppBundler { return &stubBundler{id: "registry-test", target: target} })

	b, err := Lookup(" " + key + " ")
	require.NoError(t, err)
	assert.Equal(t, "registry-test", b.ID())

	other, err := Lookup(key)
	require.NoError(t, err)
	assert.NotSame(t, b, other, "each lookup creates a fresh instance")

	assert.Contains(t, Keys(), key)
	assert.Equal(t, []string{key}, KeysFor(target))

	assert.Panics(t, func() {
		Register(key, func() NativeAppBundler { return &stubBundler{} })
	})

	_, err = Lookup("missing@testos-x64")
	assert.Error(t, err)
}

func TestRequestParam(t *testing.T) {
	req := &BundleRequest{InternalParameters: map[string]string{"stampResources": "false"}}
	assert.Equal(t, "false", req.Param("stampResources", "true"))
	assert.Equal(t, "x", req.Param("missing", "x"))

	lowered := &BundleRequest{InternalParameters: map[string]string{"stampresources": "false"}}
	assert.Equal(t, "false", lowered.Param("stampResources", "true"))

	var empty BundleRequest
	assert.Equal(t, "y", empty.Param("any", "y"))
}

func TestResultWarn(t *testing.T) {
	var r Result
	r.Warn("copy runtime", assert.AnError)
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, "copy runtime: "+assert.AnError.Error(), r.Warnings[0].String())
}
