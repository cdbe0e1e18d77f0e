//
// SPDX-FileCopyrightText: Copyright (c) 2025 provide.io llc. All rights reserved.
// SPDX-License-Identifier: Apache-2.0
//

package archive

import (
	"archive/tar"
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

// Pack writes every regular file below folder into dest. Entry names are
// relative to folder and use forward slashes. It returns the entry count.
func Pack(folder, dest string, format Format, logger hclog.Logger) (int, error) {
	info, err := os.Stat(folder)
	if err != nil {
		return 0, fmt.Errorf("failed to stat folder to pack: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", folder)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create archive directory: %w", err)
	}

	tmpPath := dest + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create archive: %w", err)
	}

	var count int
	switch {
	case format == FormatZip:
		count, err = packZip(folder, out)
	case format.isTar():
		count, err = packTar(folder, out, format.codec())
	default:
		err = fmt.Errorf("unsupported archive format: %s", format)
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return 0, err
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to move archive into place: %w", err)
	}
	logger.Debug("🗜️ Packed folder", "folder", folder, "archive", dest, "format", string(format), "entries", count)
	return count, nil
}

type visitFunc func(name string, path string, info fs.FileInfo) error

func walkFiles(folder string, visit visitFunc) (int, error) {
	count := 0
	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(folder, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if err := visit(filepath.ToSlash(rel), path, info); err != nil {
			return fmt.Errorf("failed to add %s: %w", rel, err)
		}
		count++
		return nil
	})
	return count, err
}

func copyFileTo(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

func packZip(folder string, out io.Writer) (int, error) {
	zw := zip.NewWriter(out)
	count, err := walkFiles(folder, func(name, path string, info fs.FileInfo) error {
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = name
		header.Method = zip.Deflate
		w, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		return copyFileTo(w, path)
	})
	if closeErr := zw.Close(); err == nil {
		err = closeErr
	}
	return count, err
}

func packTar(folder string, out io.Writer, codecName string) (int, error) {
	var sink io.WriteCloser = nopWriteCloser{out}
	if codecName != "" {
		codec, err := GetCodec(codecName)
		if err != nil {
			return 0, err
		}
		if sink, err = codec.NewWriter(out); err != nil {
			return 0, err
		}
	}

	tw := tar.NewWriter(sink)
	count, err := walkFiles(folder, func(name, path string, info fs.FileInfo) error {
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = name
		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("writing tar header: %w", err)
		}
		return copyFileTo(tw, path)
	})
	err = errors.Join(err, tw.Close(), sink.Close())
	return count, err
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// List returns the entry names of an archive written by Pack.
func List(path string, format Format) ([]string, error) {
	if format == FormatZip {
		zr, err := zip.OpenReader(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open zip: %w", err)
		}
		defer zr.Close()
		names := make([]string, 0, len(zr.File))
		for _, f := range zr.File {
			names = append(names, f.Name)
		}
		return names, nil
	}
	if !format.isTar() {
		return nil, fmt.Errorf("unsupported archive format: %s", format)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	var src io.Reader = f
	if name := format.codec(); name != "" {
		codec, err := GetCodec(name)
		if err != nil {
			return nil, err
		}
		r, err := codec.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		src = r
	}

	var names []string
	tr := tar.NewReader(src)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return names, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar header: %w", err)
		}
		names = append(names, header.Name)
	}
}
