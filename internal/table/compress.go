package table

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
)

// Compression is a transparent compression layer around a table file.
type Compression string

const (
	CompressionNone Compression = ""
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

// pgzip block size for both directions.
const gzipBlockSize = 256 * 1024

// SplitCompression returns the path without its compression suffix and the
// compression it names.
func SplitCompression(path string) (string, Compression) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return strings.TrimSuffix(path, filepath.Ext(path)), CompressionGzip
	case ".zst", ".zstd":
		return strings.TrimSuffix(path, filepath.Ext(path)), CompressionZstd
	}
	return path, CompressionNone
}

type multiCloser struct {
	io.Reader
	io.Writer
	closers []func() error
}

func (m *multiCloser) Close() error {
	var errs []error
	for _, c := range m.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// openInput opens path for reading and decompresses it if needed.
func openInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	_, comp := SplitCompression(path)
	switch comp {
	case CompressionGzip:
		gz, err := pgzip.NewReaderN(f, gzipBlockSize, runtime.NumCPU())
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("opening gzip stream %s: %w", path, err)
		}
		return &multiCloser{Reader: gz, closers: []func() error{gz.Close, f.Close}}, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("opening zstd stream %s: %w", path, err)
		}
		return &multiCloser{Reader: zr, closers: []func() error{
			func() error { zr.Close(); return nil },
			f.Close,
		}}, nil
	}
	return f, nil
}

// createOutput creates (or truncates) path and compresses writes if needed.
// Close flushes the compressor before closing the file.
func createOutput(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	_, comp := SplitCompression(path)
	switch comp {
	case CompressionGzip:
		gz := pgzip.NewWriter(f)
		if err := gz.SetConcurrency(gzipBlockSize, runtime.NumCPU()); err != nil {
			f.Close()
			return nil, fmt.Errorf("configuring gzip stream %s: %w", path, err)
		}
		return &multiCloser{Writer: gz, closers: []func() error{gz.Close, f.Close}}, nil
	case CompressionZstd:
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("opening zstd stream %s: %w", path, err)
		}
		return &multiCloser{Writer: zw, closers: []func() error{zw.Close, f.Close}}, nil
	}
	return f, nil
}
