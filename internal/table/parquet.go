package table

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/parquet-go/parquet-go"
)

// Key/value metadata keys used to keep column order, units and table meta
// in Parquet files (Parquet groups sort their fields by name).
const (
	parquetColumnsKey = "g4spectra.columns"
	parquetMetaKey    = "g4spectra.meta"
	parquetReadBatch  = 256
)

type parquetColumn struct {
	Name        string   `json:"name"`
	Type        DataType `json:"datatype"`
	Unit        string   `json:"unit,omitempty"`
	Description string   `json:"description,omitempty"`
}

type parquetMeta struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// WriteParquet writes t as a Parquet file with one required leaf per column.
func WriteParquet(w io.Writer, t *Table) error {
	if err := t.Validate(); err != nil {
		return err
	}

	group := parquet.Group{}
	info := make([]parquetColumn, len(t.Columns))
	for i, c := range t.Columns {
		switch c.Type {
		case Float64:
			group[c.Name] = parquet.Leaf(parquet.DoubleType)
		case Int64:
			group[c.Name] = parquet.Int(64)
		default:
			group[c.Name] = parquet.String()
		}
		info[i] = parquetColumn{Name: c.Name, Type: c.Type, Unit: c.Unit, Description: c.Description}
	}
	schema := parquet.NewSchema("spectrum", group)

	index := make(map[string]int, len(t.Columns))
	for i, f := range schema.Fields() {
		index[f.Name()] = i
	}

	columnsJSON, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encoding parquet column info: %w", err)
	}
	meta := make([]parquetMeta, len(t.Meta))
	for i, m := range t.Meta {
		meta[i] = parquetMeta{Key: m.Key, Value: m.Value}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encoding parquet meta: %w", err)
	}

	pw := parquet.NewWriter(w, schema,
		parquet.KeyValueMetadata(parquetColumnsKey, string(columnsJSON)),
		parquet.KeyValueMetadata(parquetMetaKey, string(metaJSON)),
	)

	rows := make([]parquet.Row, t.Len())
	for i := range rows {
		row := make(parquet.Row, len(t.Columns))
		for _, c := range t.Columns {
			col := index[c.Name]
			var v parquet.Value
			switch c.Type {
			case Float64:
				v = parquet.DoubleValue(c.Floats[i])
			case Int64:
				v = parquet.Int64Value(int64(c.Floats[i]))
			default:
				v = parquet.ByteArrayValue([]byte(c.Strings[i]))
			}
			row[col] = v.Level(0, 0, col)
		}
		rows[i] = row
	}
	if _, err := pw.WriteRows(rows); err != nil {
		return fmt.Errorf("writing parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("closing parquet writer: %w", err)
	}
	return nil
}

// ReadParquet reads a flat Parquet file. Files written by other tools are
// accepted as long as every column is a required or optional leaf of a
// numeric or byte-array type.
func ReadParquet(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading parquet: %w", err)
	}
	pf, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening parquet: %w", err)
	}

	fields := pf.Schema().Fields()
	byIndex := make([]*Column, len(fields))
	byName := make(map[string]*Column, len(fields))
	for i, f := range fields {
		if !f.Leaf() {
			return nil, fmt.Errorf("%w: nested parquet field %q", ErrUnsupportedFormat, f.Name())
		}
		typ := String
		switch f.Type().Kind() {
		case parquet.Double, parquet.Float:
			typ = Float64
		case parquet.Int32, parquet.Int64:
			typ = Int64
		}
		c := &Column{Name: f.Name(), Type: typ}
		byIndex[i] = c
		byName[c.Name] = c
	}

	for _, rg := range pf.RowGroups() {
		if err := readRowGroup(rg, byIndex); err != nil {
			return nil, err
		}
	}

	t := New()
	if raw, ok := pf.Lookup(parquetColumnsKey); ok {
		var info []parquetColumn
		if err := json.Unmarshal([]byte(raw), &info); err != nil {
			return nil, fmt.Errorf("decoding parquet column info: %w", err)
		}
		for _, ci := range info {
			c, ok := byName[ci.Name]
			if !ok {
				return nil, fmt.Errorf("%w: %q listed in metadata but not in schema", ErrMissingColumn, ci.Name)
			}
			c.Unit, c.Description = ci.Unit, ci.Description
			t.Columns = append(t.Columns, c)
		}
	} else {
		t.Columns = byIndex
	}

	if raw, ok := pf.Lookup(parquetMetaKey); ok {
		var meta []parquetMeta
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			return nil, fmt.Errorf("decoding parquet meta: %w", err)
		}
		for _, m := range meta {
			t.Meta = append(t.Meta, MetaItem{Key: m.Key, Value: m.Value})
		}
	}

	for _, c := range t.Columns {
		if c.Type == String && c.Strings == nil {
			c.Strings = []string{}
		}
		if c.Type != String && c.Floats == nil {
			c.Floats = []float64{}
		}
	}
	return t, t.Validate()
}

func readRowGroup(rg parquet.RowGroup, cols []*Column) error {
	rows := rg.Rows()
	defer rows.Close()

	buf := make([]parquet.Row, parquetReadBatch)
	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			for _, v := range row {
				idx := v.Column()
				if idx < 0 || idx >= len(cols) {
					continue
				}
				appendValue(cols[idx], v)
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading parquet rows: %w", err)
		}
		if n == 0 {
			return nil
		}
	}
}

func appendValue(c *Column, v parquet.Value) {
	if c.Type == String {
		if v.IsNull() {
			c.Strings = append(c.Strings, "")
			return
		}
		c.Strings = append(c.Strings, string(v.ByteArray()))
		return
	}
	if v.IsNull() {
		c.Floats = append(c.Floats, math.NaN())
		return
	}
	switch v.Kind() {
	case parquet.Double:
		c.Floats = append(c.Floats, v.Double())
	case parquet.Float:
		c.Floats = append(c.Floats, float64(v.Float()))
	case parquet.Int32:
		c.Floats = append(c.Floats, float64(v.Int32()))
	default:
		c.Floats = append(c.Floats, float64(v.Int64()))
	}
}
