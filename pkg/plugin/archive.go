package plugin

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ServicesEntry is the archive entry listing the bundlers a plugin provides,
// one registration key per line.
const ServicesEntry = "META-INF/services/distbundle.NativeAppBundler"

// WriteArchive writes a plugin archive at path registering keys in order.
func WriteArchive(path string, keys []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create plugin archive directory: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create plugin archive: %w", err)
	}

	zw := zip.NewWriter(f)
	w, err := zw.Create(ServicesEntry)
	if err == nil {
		for _, key := range keys {
			if _, err = io.WriteString(w, key+"\n"); err != nil {
				break
			}
		}
	}
	if err == nil {
		err = zw.Close()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write plugin archive %s: %w", path, err)
	}
	return os.Rename(tmp, path)
}

// parseServices returns the registration keys of a services listing in
// order. Text after '#' is a comment; blank lines are ignored.
func parseServices(r io.Reader) ([]string, error) {
	var keys []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		keys = append(keys, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}
