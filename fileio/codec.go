package fileio

import (
	"compress/bzip2"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

// A Codec compresses and decompresses the streams of files with a given suffix
type Codec interface {
	Suffix() string
	Compress(w io.WriteCloser) (io.WriteCloser, error)
	Decompress(r io.ReadCloser) (io.ReadCloser, error)
}

var codecs = []Codec{
	gzipCodec{},
	zstdCodec{},
	lz4Codec{},
	bzip2Codec{},
}

// CodecFor returns the Codec for a file name, or nil if the file is not compressed
func CodecFor(name string) Codec {
	for _, c := range codecs {
		if strings.HasSuffix(name, c.Suffix()) {
			return c
		}
	}
	return nil
}

// CodecSuffix returns the suffix of the Codec for a file name, or the empty string
func CodecSuffix(name string) string {
	if c := CodecFor(name); c != nil {
		return c.Suffix()
	}
	return ""
}

// Open opens a file for reading, decompressing it according to its name
func Open(client Client, name string) (io.ReadCloser, error) {
	r, err := client.OpenReadCloser(name)
	if err != nil {
		return nil, err
	}
	c := CodecFor(name)
	if c == nil {
		return r, nil
	}
	dr, err := c.Decompress(r)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("Unable to decompress %s: %w", name, err)
	}
	return dr, nil
}

// Create opens a file for writing, compressing it according to its name
func Create(client Client, name string) (io.WriteCloser, error) {
	w, err := client.OpenWriteCloser(name)
	if err != nil {
		return nil, err
	}
	c := CodecFor(name)
	if c == nil {
		return w, nil
	}
	cw, err := c.Compress(w)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("Unable to compress %s: %w", name, err)
	}
	return cw, nil
}

// stackedWriteCloser closes a compressing writer, then the underlying file
type stackedWriteCloser struct {
	io.Writer
	closeFns []func() error
}

func (s *stackedWriteCloser) Close() error {
	var firstErr error
	for _, fn := range s.closeFns {
		if err := fn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// stackedReadCloser closes a decompressing reader, then the underlying file
type stackedReadCloser struct {
	io.Reader
	closeFns []func() error
}

func (s *stackedReadCloser) Close() error {
	var firstErr error
	for _, fn := range s.closeFns {
		if err := fn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type gzipCodec struct{}

func (gzipCodec) Suffix() string { return ".gz" }

func (gzipCodec) Compress(w io.WriteCloser) (io.WriteCloser, error) {
	gw := gzip.NewWriter(w)
	return &stackedWriteCloser{Writer: gw, closeFns: []func() error{gw.Close, w.Close}}, nil
}

func (gzipCodec) Decompress(r io.ReadCloser) (io.ReadCloser, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &stackedReadCloser{Reader: gr, closeFns: []func() error{gr.Close, r.Close}}, nil
}

type zstdCodec struct{}

func (zstdCodec) Suffix() string { return ".zst" }

func (zstdCodec) Compress(w io.WriteCloser) (io.WriteCloser, error) {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	return &stackedWriteCloser{Writer: zw, closeFns: []func() error{zw.Close, w.Close}}, nil
}

func (zstdCodec) Decompress(r io.ReadCloser) (io.ReadCloser, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	closeDecoder := func() error {
		zr.Close()
		return nil
	}
	return &stackedReadCloser{Reader: zr, closeFns: []func() error{closeDecoder, r.Close}}, nil
}

type lz4Codec struct{}

func (lz4Codec) Suffix() string { return ".lz4" }

func (lz4Codec) Compress(w io.WriteCloser) (io.WriteCloser, error) {
	lw := lz4.NewWriter(w)
	return &stackedWriteCloser{Writer: lw, closeFns: []func() error{lw.Close, w.Close}}, nil
}

func (lz4Codec) Decompress(r io.ReadCloser) (io.ReadCloser, error) {
	return &stackedReadCloser{Reader: lz4.NewReader(r), closeFns: []func() error{r.Close}}, nil
}

// bzip2Codec can only read
type bzip2Codec struct{}

func (bzip2Codec) Suffix() string { return ".bz2" }

func (bzip2Codec) Compress(w io.WriteCloser) (io.WriteCloser, error) {
	return nil, fmt.Errorf("bzip2 compression is not supported")
}

func (bzip2Codec) Decompress(r io.ReadCloser) (io.ReadCloser, error) {
	return &stackedReadCloser{Reader: bzip2.NewReader(r), closeFns: []func() error{r.Close}}, nil
}
