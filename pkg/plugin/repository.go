package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/distbundle/pkg/spi"
)

// ArchiveExtension is the file extension of plugin archives.
const ArchiveExtension = ".zip"

// Repository resolves a coordinate to the archives making up the plugin. A
// coordinate the repository does not know yields no archives and no error.
type Repository interface {
	Resolve(ctx context.Context, c Coordinate) ([]string, error)
}

// LocalRepository is a folder using the group/artifact/version layout:
// <root>/<group as path>/<artifact>/<version>/<artifact>-<version>[-<classifier>].zip
type LocalRepository struct {
	Root   string
	Logger hclog.Logger
}

// PathOf returns where c is stored inside the repository.
func (r *LocalRepository) PathOf(c Coordinate) string {
	name := c.Artifact + "-" + c.Version
	if c.Classifier != "" {
		name += "-" + c.Classifier
	}
	groupPath := filepath.FromSlash(strings.ReplaceAll(c.Group, ".", "/"))
	return filepath.Join(r.Root, groupPath, c.Artifact, c.Version, name+ArchiveExtension)
}

func (r *LocalRepository) Resolve(_ context.Context, c Coordinate) ([]string, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	path := r.PathOf(c)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger().Trace("🔍 Plugin archive not in local repository", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, nil
	}
	r.logger().Debug("📦 Found plugin archive", "path", path)
	return []string{path}, nil
}

func (r *LocalRepository) logger() hclog.Logger {
	if r.Logger == nil {
		return hclog.NewNullLogger()
	}
	return r.Logger
}

// BuiltinRepository serves the engine's compiled-in bundlers. For a default
// coordinate of the running engine version it writes a plugin archive
// listing the bundlers registered for the coordinate's target into Dir.
type BuiltinRepository struct {
	Dir string
}

func (r *BuiltinRepository) Resolve(_ context.Context, c Coordinate) ([]string, error) {
	if c.Group != DefaultGroup || c.Version != EngineVersion || c.Classifier != "" {
		return nil, nil
	}
	target, ok := TargetOf(c)
	if !ok {
		return nil, nil
	}
	keys := spi.KeysFor(target)
	if len(keys) == 0 {
		return nil, nil
	}

	path := filepath.Join(r.Dir, c.Artifact+"-"+c.Version+ArchiveExtension)
	if err := WriteArchive(path, keys); err != nil {
		return nil, err
	}
	return []string{path}, nil
}

// ChainRepository asks each repository in order and returns the first non-empty answer.
type ChainRepository []Repository

func (chain ChainRepository) Resolve(ctx context.Context, c Coordinate) ([]string, error) {
	for _, repo := range chain {
		archives, err := repo.Resolve(ctx, c)
		if err != nil {
			return nil, err
		}
		if len(archives) > 0 {
			return archives, nil
		}
	}
	return nil, nil
}
