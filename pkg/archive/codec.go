package archive

import (
	"compress/gzip"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
)

// Codec names
const (
	CodecGzip  = "gzip"
	CodecBzip2 = "bzip2"
)

// Codec is a stream compression applied on top of a tar stream.
type Codec interface {
	Name() string
	NewWriter(w io.Writer) (io.WriteCloser, error)
	NewReader(r io.Reader) (io.ReadCloser, error)
}

var codecs = make(map[string]Codec)

// RegisterCodec makes a codec available by name.
func RegisterCodec(c Codec) {
	codecs[c.Name()] = c
}

// GetCodec retrieves a codec by name.
func GetCodec(name string) (Codec, error) {
	c, ok := codecs[name]
	if !ok {
		return nil, fmt.Errorf("unknown codec: %s", name)
	}
	return c, nil
}

func init() {
	RegisterCodec(gzipCodec{})
	RegisterCodec(bzip2Codec{})
}

type gzipCodec struct{}

func (gzipCodec) Name() string { return CodecGzip }

func (gzipCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	gw, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("creating gzip writer: %w", err)
	}
	return gw, nil
}

func (gzipCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("creating gzip reader: %w", err)
	}
	return gr, nil
}

type bzip2Codec struct{}

func (bzip2Codec) Name() string { return CodecBzip2 }

func (bzip2Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	bw, err := bzip2.NewWriter(w, &bzip2.WriterConfig{Level: 9})
	if err != nil {
		return nil, fmt.Errorf("creating bzip2 writer: %w", err)
	}
	return bw, nil
}

func (bzip2Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	br, err := bzip2.NewReader(r, &bzip2.ReaderConfig{})
	if err != nil {
		return nil, fmt.Errorf("creating bzip2 reader: %w", err)
	}
	return br, nil
}
