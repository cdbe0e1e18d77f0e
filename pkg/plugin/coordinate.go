// Package plugin resolves bundler plugin archives and loads the bundlers
// they register.
package plugin

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	derrors "github.com/provide-io/distbundle/pkg/errors"
	"github.com/provide-io/distbundle/pkg/platform"
)

// EngineVersion is the version of the running engine. It is the default
// version of bundler plugin coordinates.
const EngineVersion = "0.3.0"

// Default coordinate parts
const (
	DefaultGroup          = "io.provide.distbundle.bundler"
	DefaultArtifactPrefix = "native-app-"
)

// Coordinate addresses a plugin archive as group:artifact:version[:classifier].
type Coordinate struct {
	Group      string
	Artifact   string
	Version    string
	Classifier string
}

func (c Coordinate) String() string {
	s := c.Group + ":" + c.Artifact + ":" + c.Version
	if c.Classifier != "" {
		s += ":" + c.Classifier
	}
	return s
}

// splitParts splits on ':' and drops trailing empty parts.
func splitParts(s string) []string {
	parts := strings.Split(s, ":")
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// ParseCoordinate parses "group:artifact:version" or
// "group:artifact:version:classifier".
func ParseCoordinate(s string) (Coordinate, error) {
	parts := splitParts(strings.TrimSpace(s))
	if len(parts) != 3 && len(parts) != 4 {
		return Coordinate{}, derrors.Configurationf(derrors.ErrInvalidCoordinate, "%q", s)
	}
	for _, p := range parts[:3] {
		if strings.TrimSpace(p) == "" {
			return Coordinate{}, derrors.Configurationf(derrors.ErrInvalidCoordinate, "%q has an empty part", s)
		}
	}

	c := Coordinate{Group: parts[0], Artifact: parts[1], Version: parts[2]}
	if len(parts) == 4 {
		c.Classifier = parts[3]
	}
	return c, nil
}

// DefaultCoordinate builds the coordinate of the engine's own bundlers for a target.
func DefaultCoordinate(target platform.Target, version string) Coordinate {
	return Coordinate{
		Group:    DefaultGroup,
		Artifact: DefaultArtifactPrefix + target.String(),
		Version:  version,
	}
}

// TargetOf returns the target encoded in a default-style artifact id.
func TargetOf(c Coordinate) (platform.Target, bool) {
	if !strings.HasPrefix(c.Artifact, DefaultArtifactPrefix) {
		return platform.Target{}, false
	}
	t, err := platform.ParseTarget(strings.TrimPrefix(c.Artifact, DefaultArtifactPrefix))
	if err != nil {
		return platform.Target{}, false
	}
	return t, true
}

// CoordinateOptions are the inputs selecting the bundler plugin.
type CoordinateOptions struct {
	// Source is an explicit coordinate; empty selects the default one.
	Source string
	// VersionOverride replaces the version of the chosen coordinate.
	VersionOverride string
	// ClientOS and ClientArch override the target tokens of the default coordinate.
	ClientOS   string
	ClientArch string
}

// ResolveCoordinate picks the plugin coordinate. An explicit source with at
// most two ':'-separated parts is ignored with a warning and the default
// coordinate is used instead.
func ResolveCoordinate(opts CoordinateOptions, logger hclog.Logger) (Coordinate, error) {
	var c Coordinate

	source := strings.TrimSpace(opts.Source)
	useDefault := source == ""
	if !useDefault && len(splitParts(source)) <= 2 {
		logger.Warn("⚠️ Provided bundler source is not in group:artifact:version format, using default bundler source", "source", source)
		useDefault = true
	}

	if useDefault {
		c = DefaultCoordinate(DefaultTarget(opts.ClientOS, opts.ClientArch), EngineVersion)
		logger.Debug("🔍 Using default bundler source coordinates", "coordinate", c.String())
	} else {
		parsed, err := ParseCoordinate(source)
		if err != nil {
			return Coordinate{}, err
		}
		c = parsed
	}

	if v := strings.TrimSpace(opts.VersionOverride); v != "" {
		c.Version = v
	}
	return c, nil
}

// DefaultTarget returns the target for the default coordinate, taking the
// host's OS and architecture for tokens that are not given.
func DefaultTarget(clientOS, clientArch string) platform.Target {
	host := platform.Host()
	target := host
	if v := strings.TrimSpace(clientOS); v != "" {
		target.OS = platform.OS(strings.ToLower(v))
	}
	if v := strings.TrimSpace(clientArch); v != "" {
		target.Arch = platform.Arch(strings.ToLower(v))
	}
	return target
}

// Validate reports whether c names a known layout.
func (c Coordinate) Validate() error {
	if c.Group == "" || c.Artifact == "" || c.Version == "" {
		return derrors.Configurationf(derrors.ErrInvalidCoordinate, "%s", c.String())
	}
	if strings.ContainsAny(c.Artifact+c.Version+c.Classifier, `/\`) {
		return derrors.Configuration("validate coordinate", fmt.Errorf("%w: path separators are not allowed in %s", derrors.ErrInvalidCoordinate, c.String()))
	}
	return nil
}
