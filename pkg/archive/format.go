// Package archive packs a bundle folder into a single distributable file.
package archive

import (
	"fmt"
	"strings"
)

// Format is a packed bundle file format.
type Format string

const (
	FormatZip    Format = "zip"
	FormatTar    Format = "tar"
	FormatTarGz  Format = "tar.gz"
	FormatTarBz2 Format = "tar.bz2"
)

// DefaultFormat matches the zip files produced by earlier releases.
const DefaultFormat = FormatZip

var aliases = map[string]Format{
	"zip":       FormatZip,
	"tar":       FormatTar,
	"tar.gz":    FormatTarGz,
	"tgz":       FormatTarGz,
	"tar|gzip":  FormatTarGz,
	"tar.bz2":   FormatTarBz2,
	"tbz2":      FormatTarBz2,
	"tar|bzip2": FormatTarBz2,
}

// ParseFormat accepts a format name, a common file suffix or a pipe chain
// such as "tar|gzip". Empty selects DefaultFormat.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultFormat, nil
	}
	s = strings.ReplaceAll(strings.TrimPrefix(s, "."), " ", "")
	if f, ok := aliases[s]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unsupported archive format: %s", s)
}

// Extension is the file suffix without the leading dot.
func (f Format) Extension() string {
	return string(f)
}

// codec is the compression applied to the tar stream, empty for none.
func (f Format) codec() string {
	switch f {
	case FormatTarGz:
		return CodecGzip
	case FormatTarBz2:
		return CodecBzip2
	default:
		return ""
	}
}

func (f Format) isTar() bool {
	return strings.HasPrefix(string(f), "tar")
}

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatZip, FormatTar, FormatTarGz, FormatTarBz2}
}
