package table

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is an on-disk table format.
type Format string

const (
	FormatECSV    Format = "ecsv"
	FormatASCII   Format = "ascii"
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
	FormatSQLite  Format = "sqlite"
)

// Stdio is the path that stands for stdin or stdout.
const Stdio = "-"

// DetectFormat picks the format from the path extension, ignoring a
// compression suffix. Unknown extensions are ASCII.
func DetectFormat(path string) Format {
	if path == Stdio {
		return FormatECSV
	}
	base, _ := SplitCompression(path)
	switch strings.ToLower(filepath.Ext(base)) {
	case ".ecsv":
		return FormatECSV
	case ".csv":
		return FormatCSV
	case ".parquet", ".pq":
		return FormatParquet
	case ".sqlite", ".sqlite3", ".db":
		return FormatSQLite
	default:
		return FormatASCII
	}
}

// Writable reports whether tables can be written in this format.
func (f Format) Writable() bool {
	return f != FormatASCII
}

type readConfig struct {
	names  []string
	format Format
	stdin  io.Reader
}

// ReadOption configures ReadFile.
type ReadOption func(*readConfig)

// WithNames sets the column names of header-less ASCII input.
func WithNames(names ...string) ReadOption {
	return func(c *readConfig) {
		c.names = names
	}
}

// WithFormat overrides extension based format detection.
func WithFormat(f Format) ReadOption {
	return func(c *readConfig) {
		c.format = f
	}
}

// WithStdin sets the reader used for the "-" path.
func WithStdin(r io.Reader) ReadOption {
	return func(c *readConfig) {
		c.stdin = r
	}
}

// ReadFile reads a table from path.
func ReadFile(ctx context.Context, path string, opts ...ReadOption) (*Table, error) {
	cfg := &readConfig{stdin: os.Stdin}
	for _, opt := range opts {
		opt(cfg)
	}
	format := cfg.format
	if format == "" {
		format = DetectFormat(path)
	}

	if path == Stdio {
		return decode(format, cfg.stdin, cfg.names)
	}

	if format == FormatSQLite {
		if _, comp := SplitCompression(path); comp != CompressionNone {
			return nil, fmt.Errorf("%w: compressed sqlite files", ErrUnsupportedFormat)
		}
		t, err := ReadSQLite(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return t, nil
	}

	rc, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	t, err := decode(format, rc, cfg.names)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}

func decode(format Format, r io.Reader, names []string) (*Table, error) {
	switch format {
	case FormatECSV:
		return ReadECSV(r)
	case FormatCSV:
		return ReadCSV(r)
	case FormatParquet:
		return ReadParquet(r)
	case FormatASCII:
		return ReadASCII(r, names)
	default:
		return nil, fmt.Errorf("%w: cannot read %s from a stream", ErrUnsupportedFormat, format)
	}
}

// WriteFile writes t to path in the format its extension names.
// The path "-" writes ECSV to stdout.
func WriteFile(ctx context.Context, path string, t *Table, stdout io.Writer) error {
	format := DetectFormat(path)
	if !format.Writable() {
		return fmt.Errorf("%w: cannot write %s (%s is read only)", ErrUnsupportedFormat, path, format)
	}

	if path == Stdio {
		if stdout == nil {
			stdout = os.Stdout
		}
		return WriteECSV(stdout, t)
	}

	if format == FormatSQLite {
		if _, comp := SplitCompression(path); comp != CompressionNone {
			return fmt.Errorf("%w: compressed sqlite files", ErrUnsupportedFormat)
		}
		return WriteSQLite(ctx, path, t)
	}

	// Encode fully before touching the destination so a failed encode
	// leaves an existing file intact.
	var buf bytes.Buffer
	if err := encode(format, &buf, t); err != nil {
		return err
	}

	wc, err := createOutput(path)
	if err != nil {
		return err
	}
	if _, err := buf.WriteTo(wc); err != nil {
		wc.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func encode(format Format, w io.Writer, t *Table) error {
	switch format {
	case FormatECSV:
		return WriteECSV(w, t)
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatParquet:
		return WriteParquet(w, t)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
