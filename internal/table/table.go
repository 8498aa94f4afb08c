package table

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// DataType identifies the storage type of a column.
type DataType string

const (
	Float64 DataType = "float64"
	Int64   DataType = "int64"
	String  DataType = "string"
)

// IsNumeric reports whether values of this type live in Column.Floats.
func (d DataType) IsNumeric() bool {
	return d == Float64 || d == Int64
}

// Column is a named, typed column of a Table.
// Numeric columns (Float64, Int64) hold their values in Floats; String
// columns hold them in Strings.
type Column struct {
	Name        string
	Type        DataType
	Unit        string
	Description string
	Floats      []float64
	Strings     []string
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	if c.Type == String {
		return len(c.Strings)
	}
	return len(c.Floats)
}

// Text returns the textual representation of row i as written to text formats.
func (c *Column) Text(i int) string {
	switch c.Type {
	case String:
		return c.Strings[i]
	case Int64:
		return strconv.FormatInt(int64(c.Floats[i]), 10)
	default:
		return FormatFloat(c.Floats[i])
	}
}

// MetaItem is one key/value pair of table metadata.
type MetaItem struct {
	Key   string
	Value any
}

// Table is an ordered set of equal-length columns plus ordered metadata.
type Table struct {
	Columns []*Column
	Meta    []MetaItem
}

// New creates an empty table.
func New() *Table {
	return &Table{}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// Floats returns the values of a numeric column.
// The returned slice aliases the table storage.
func (t *Table) Floats(name string) ([]float64, error) {
	c, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrMissingColumn, name, strings.Join(t.Names(), ", "))
	}
	if !c.Type.IsNumeric() {
		return nil, fmt.Errorf("%w: %q has type %s", ErrNotNumeric, name, c.Type)
	}
	return c.Floats, nil
}

// AddFloatColumn appends a float64 column.
func (t *Table) AddFloatColumn(name string, values []float64) (*Column, error) {
	c := &Column{Name: name, Type: Float64, Floats: values}
	return c, t.addColumn(c)
}

// AddStringColumn appends a string column.
func (t *Table) AddStringColumn(name string, values []string) (*Column, error) {
	c := &Column{Name: name, Type: String, Strings: values}
	return c, t.addColumn(c)
}

func (t *Table) addColumn(c *Column) error {
	if t.HasColumn(c.Name) {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
	}
	if len(t.Columns) > 0 && c.Len() != t.Len() {
		return fmt.Errorf("%w: column %q has %d values, table has %d rows", ErrLengthMismatch, c.Name, c.Len(), t.Len())
	}
	t.Columns = append(t.Columns, c)
	return nil
}

// Scale multiplies every value of a numeric column by factor.
// Integer columns are promoted to float64.
func (t *Table) Scale(name string, factor float64) error {
	values, err := t.Floats(name)
	if err != nil {
		return err
	}
	for i := range values {
		values[i] *= factor
	}
	c, _ := t.Column(name)
	c.Type = Float64
	return nil
}

// Divide divides every value of a numeric column by divisor.
// Integer columns are promoted to float64.
func (t *Table) Divide(name string, divisor float64) error {
	if divisor == 0 {
		return fmt.Errorf("dividing column %q: %w", name, ErrDivideByZero)
	}
	values, err := t.Floats(name)
	if err != nil {
		return err
	}
	for i := range values {
		values[i] /= divisor
	}
	c, _ := t.Column(name)
	c.Type = Float64
	return nil
}

// SortBy reorders all rows so the named column is ascending.
// The sort is stable; NaN values sort last.
func (t *Table) SortBy(name string) error {
	key, ok := t.Column(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}

	perm := make([]int, t.Len())
	for i := range perm {
		perm[i] = i
	}
	if key.Type == String {
		sort.SliceStable(perm, func(a, b int) bool {
			return key.Strings[perm[a]] < key.Strings[perm[b]]
		})
	} else {
		sort.SliceStable(perm, func(a, b int) bool {
			x, y := key.Floats[perm[a]], key.Floats[perm[b]]
			if math.IsNaN(y) {
				return !math.IsNaN(x)
			}
			return x < y
		})
	}

	for _, c := range t.Columns {
		if c.Type == String {
			sorted := make([]string, len(perm))
			for i, p := range perm {
				sorted[i] = c.Strings[p]
			}
			c.Strings = sorted
			continue
		}
		sorted := make([]float64, len(perm))
		for i, p := range perm {
			sorted[i] = c.Floats[p]
		}
		c.Floats = sorted
	}
	return nil
}

// Validate checks that column names are unique and non-empty and that all
// columns have the same length.
func (t *Table) Validate() error {
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" {
			return fmt.Errorf("%w: empty column name", ErrInvalidTable)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name)
		}
		seen[c.Name] = true
		if c.Len() != t.Len() {
			return fmt.Errorf("%w: column %q has %d values, table has %d rows", ErrLengthMismatch, c.Name, c.Len(), t.Len())
		}
		switch c.Type {
		case Float64, Int64, String:
		default:
			return fmt.Errorf("%w: column %q has unknown type %q", ErrInvalidTable, c.Name, c.Type)
		}
	}
	return nil
}

// SetMeta sets a metadata value, replacing an existing key in place.
func (t *Table) SetMeta(key string, value any) {
	for i := range t.Meta {
		if t.Meta[i].Key == key {
			t.Meta[i].Value = value
			return
		}
	}
	t.Meta = append(t.Meta, MetaItem{Key: key, Value: value})
}

// MetaValue returns the metadata value for key.
func (t *Table) MetaValue(key string) (any, bool) {
	for _, m := range t.Meta {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// FormatFloat renders a float the way Python's repr does: fixed notation
// with at least one decimal for magnitudes in [1e-4, 1e16), exponent
// notation otherwise.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	a := math.Abs(v)
	if a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
