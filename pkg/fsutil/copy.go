// Package fsutil provides the file tree operations used while assembling bundles.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// CopyFile copies src to dst, replacing dst and keeping the source mode.
func CopyFile(src, dst string) error {
	return CopyFileMode(src, dst, 0)
}

// CopyFileMode copies src to dst and applies mode, or the source mode when mode is 0.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	sourceInfo, err := sourceFile.Stat()
	if err != nil {
		return err
	}
	if mode == 0 {
		mode = sourceInfo.Mode().Perm()
	}

	destFile, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		destFile.Close()
		return err
	}
	if err := destFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(dst, mode); err != nil {
		return err
	}
	return os.Chtimes(dst, sourceInfo.ModTime(), sourceInfo.ModTime())
}

// CopyRecursive copies the tree below src into dst, creating folders as needed
// and replacing existing files. Entries that fail are skipped and the
// failures returned together once the walk is done.
func CopyRecursive(src, dst string) error {
	var failures []error

	walkErr := filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			failures = append(failures, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			failures = append(failures, err)
			return nil
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			if err := os.MkdirAll(target, DirPerms); err != nil {
				failures = append(failures, err)
				return filepath.SkipDir
			}
			return nil
		}

		if err := CopyFile(path, target); err != nil {
			failures = append(failures, fmt.Errorf("copy %s: %w", rel, err))
		}
		return nil
	})
	if walkErr != nil {
		failures = append(failures, walkErr)
	}
	return errors.Join(failures...)
}

// DeleteRecursive removes path and everything below it. A missing path is not an error.
func DeleteRecursive(path string) error {
	if _, err := os.Lstat(path); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// CopySingleLevel copies the regular files directly inside src whose name
// matches pattern into dst. Subfolders are not entered.
func CopySingleLevel(src, dst, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid file pattern %q", pattern)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dst, DirPerms); err != nil {
		return nil, err
	}

	var copied []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ok, err := doublestar.Match(pattern, entry.Name())
		if err != nil || !ok {
			continue
		}
		if err := CopyFile(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return copied, fmt.Errorf("copy %s: %w", entry.Name(), err)
		}
		copied = append(copied, entry.Name())
	}
	return copied, nil
}

// Glob returns the files below root matching a doublestar pattern, as paths
// joined onto root.
func Glob(root, pattern string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q in %s: %w", pattern, root, err)
	}
	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(root, filepath.FromSlash(m)))
	}
	return paths, nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsEmptyDir reports whether path is a directory without entries. A missing
// directory counts as empty.
func IsEmptyDir(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	return len(entries) == 0, nil
}
