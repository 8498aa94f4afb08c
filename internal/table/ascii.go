package table

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxLineSize bounds a single input line.
const maxLineSize = 4 * 1024 * 1024

// ReadASCII reads a whitespace separated table without a header row.
// Lines starting with '#' and blank lines are skipped. Column names must be
// supplied; when names is empty, columns are named col1, col2, ...
func ReadASCII(r io.Reader, names []string) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var rows [][]string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields, err := splitFields(line, ' ')
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if len(names) == 0 {
			for i := range fields {
				names = append(names, fmt.Sprintf("col%d", i+1))
			}
		}
		if len(fields) != len(names) {
			return nil, fmt.Errorf("%w: line %d has %d fields, expected %d", ErrSyntax, lineNo, len(fields), len(names))
		}
		rows = append(rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ascii table: %w", err)
	}

	return buildTable(names, nil, rows)
}

// buildTable assembles a table from row-major text fields. When types is
// nil, each column type is inferred: int64 if every value parses as an
// integer, float64 if every value parses as a float, string otherwise.
func buildTable(names []string, types []DataType, rows [][]string) (*Table, error) {
	t := New()
	for j, name := range names {
		typ := String
		if types != nil {
			typ = types[j]
		} else {
			typ = inferType(rows, j)
		}
		c := &Column{Name: name, Type: typ}
		for i, row := range rows {
			if typ == String {
				c.Strings = append(c.Strings, row[j])
				continue
			}
			v, err := parseNumber(row[j])
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %q: %v", ErrSyntax, i+1, name, err)
			}
			c.Floats = append(c.Floats, v)
		}
		if typ == String && c.Strings == nil {
			c.Strings = []string{}
		}
		if typ != String && c.Floats == nil {
			c.Floats = []float64{}
		}
		if err := t.addColumn(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func inferType(rows [][]string, j int) DataType {
	if len(rows) == 0 {
		return Float64
	}
	isInt := true
	for _, row := range rows {
		s := row[j]
		if isInt {
			if _, err := strconv.ParseInt(s, 10, 64); err == nil {
				continue
			}
			isInt = false
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return String
		}
	}
	if isInt {
		return Int64
	}
	return Float64
}

func parseNumber(s string) (float64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return float64(n), nil
	}
	return strconv.ParseFloat(s, 64)
}

// splitFields splits a line on delim. A space delimiter splits on runs of
// whitespace; any other delimiter splits on each occurrence and trims
// surrounding blanks. Fields may be double-quoted, with "" as an escaped
// quote.
func splitFields(line string, delim rune) ([]string, error) {
	var (
		fields  []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	runes := []rune(line)
	flush := func() {
		fields = append(fields, cur.String())
		cur.Reset()
		started = false
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inQuote:
			if r == '"' {
				if i+1 < len(runes) && runes[i+1] == '"' {
					cur.WriteRune('"')
					i++
					continue
				}
				inQuote = false
				continue
			}
			cur.WriteRune(r)
		case r == '"' && !started:
			inQuote = true
			started = true
		case delim == ' ' && (r == ' ' || r == '\t'):
			if started {
				flush()
			}
		case r == delim:
			s := strings.TrimSpace(cur.String())
			cur.Reset()
			cur.WriteString(s)
			flush()
		case delim != ' ' && (r == ' ' || r == '\t') && !started:
			// leading blank before a delimited field
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("%w: unterminated quote", ErrSyntax)
	}
	if delim == ' ' {
		if started {
			flush()
		}
	} else {
		s := strings.TrimSpace(cur.String())
		cur.Reset()
		cur.WriteString(s)
		flush()
	}
	return fields, nil
}

// quoteField quotes a text value if it would not survive splitFields.
func quoteField(s string, delim rune) string {
	if s != "" && !strings.ContainsAny(s, "\" \t"+string(delim)) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
