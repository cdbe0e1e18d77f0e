package plugin

import (
	"archive/zip"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/distbundle/pkg/spi"
)

// Scope holds the bundlers discovered in a set of plugin archives. The
// archives stay open until Close.
type Scope struct {
	archives []*zip.ReadCloser
	bundlers []spi.NativeAppBundler
	closed   bool
}

// OpenScope reads the services listing of every archive and instantiates the
// listed bundlers from the registration table. Bundlers are enumerated in
// archive order, then listing order. Keys missing from the table are skipped.
func OpenScope(archives []string, logger hclog.Logger) (*Scope, error) {
	s := &Scope{}
	for _, path := range archives {
		zr, err := zip.OpenReader(path)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to open plugin archive %s: %w", path, err)
		}
		s.archives = append(s.archives, zr)

		keys, err := servicesOf(zr)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to read services of %s: %w", path, err)
		}
		if keys == nil {
			logger.Debug("📭 Plugin archive lists no bundlers", "archive", path)
			continue
		}

		for _, key := range keys {
			b, err := spi.Lookup(key)
			if err != nil {
				logger.Warn("⚠️ Skipping bundler unknown to this engine", "key", key, "archive", path)
				continue
			}
			logger.Trace("🔌 Discovered bundler", "key", key, "id", b.ID())
			s.bundlers = append(s.bundlers, b)
		}
	}
	return s, nil
}

func servicesOf(zr *zip.ReadCloser) ([]string, error) {
	for _, f := range zr.File {
		if f.Name != ServicesEntry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		keys, err := parseServices(rc)
		if err != nil {
			return nil, err
		}
		if keys == nil {
			keys = []string{}
		}
		return keys, nil
	}
	return nil, nil
}

// Bundlers returns the discovered bundlers in enumeration order.
func (s *Scope) Bundlers() []spi.NativeAppBundler {
	return s.bundlers
}

// Closed reports whether Close was called.
func (s *Scope) Closed() bool {
	return s.closed
}

// Close releases the archives. It is safe to call more than once.
func (s *Scope) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var errs []error
	for _, zr := range s.archives {
		if err := zr.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.archives = nil
	s.bundlers = nil
	return errors.Join(errs...)
}
