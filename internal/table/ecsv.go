package table

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ECSV header constants.
const (
	ecsvVersion = "1.0"
	ecsvSchema  = "astropy-2.0"
)

type ecsvHeader struct {
	Datatype  []ecsvColumn `yaml:"datatype"`
	Delimiter string       `yaml:"delimiter,omitempty"`
	Meta      yaml.Node    `yaml:"meta,omitempty"`
	Schema    string       `yaml:"schema,omitempty"`
}

type ecsvColumn struct {
	Name        string `yaml:"name"`
	Datatype    string `yaml:"datatype"`
	Unit        string `yaml:"unit,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// ReadECSV reads an Astropy ECSV table.
func ReadECSV(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var (
		headerLines []string
		namesLine   string
		rows        [][]string
		lineNo      int
		sawVersion  bool
		header      *ecsvHeader
		delim       = ' '
	)

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimSpace(raw)

		if header == nil {
			if strings.HasPrefix(line, "#") {
				content := strings.TrimPrefix(strings.TrimPrefix(raw, "#"), " ")
				if !sawVersion {
					if strings.TrimSpace(content) == "" {
						continue
					}
					if !strings.HasPrefix(content, "%ECSV") {
						return nil, fmt.Errorf("%w: line %d: missing %%ECSV version line", ErrSyntax, lineNo)
					}
					sawVersion = true
					continue
				}
				headerLines = append(headerLines, content)
				continue
			}
			if line == "" {
				continue
			}
			if !sawVersion {
				return nil, fmt.Errorf("%w: line %d: missing %%ECSV version line", ErrSyntax, lineNo)
			}
			h, err := parseECSVHeader(headerLines)
			if err != nil {
				return nil, err
			}
			header = h
			if h.Delimiter != "" {
				delim = []rune(h.Delimiter)[0]
			}
			namesLine = line
			continue
		}

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields, err := splitFields(line, delim)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if len(fields) != len(header.Datatype) {
			return nil, fmt.Errorf("%w: line %d has %d fields, expected %d", ErrSyntax, lineNo, len(fields), len(header.Datatype))
		}
		rows = append(rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ecsv: %w", err)
	}

	if header == nil {
		if !sawVersion {
			return nil, fmt.Errorf("%w: missing %%ECSV version line", ErrSyntax)
		}
		h, err := parseECSVHeader(headerLines)
		if err != nil {
			return nil, err
		}
		header = h
	}

	names := make([]string, len(header.Datatype))
	types := make([]DataType, len(header.Datatype))
	for i, col := range header.Datatype {
		names[i] = col.Name
		types[i] = ecsvType(col.Datatype)
	}
	if namesLine != "" {
		got, err := splitFields(namesLine, delim)
		if err != nil {
			return nil, fmt.Errorf("column names: %w", err)
		}
		if strings.Join(got, "\x00") != strings.Join(names, "\x00") {
			return nil, fmt.Errorf("%w: column names %v do not match header %v", ErrSyntax, got, names)
		}
	}

	t, err := buildTable(names, types, rows)
	if err != nil {
		return nil, err
	}
	for i, col := range header.Datatype {
		t.Columns[i].Unit = col.Unit
		t.Columns[i].Description = col.Description
	}
	t.Meta, err = decodeMeta(&header.Meta)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func parseECSVHeader(lines []string) (*ecsvHeader, error) {
	var h ecsvHeader
	if err := yaml.Unmarshal([]byte(strings.Join(lines, "\n")), &h); err != nil {
		return nil, fmt.Errorf("%w: ecsv header: %v", ErrSyntax, err)
	}
	if len(h.Datatype) == 0 {
		return nil, fmt.Errorf("%w: ecsv header has no datatype entries", ErrSyntax)
	}
	if h.Delimiter != "" && h.Delimiter != " " && h.Delimiter != "," {
		return nil, fmt.Errorf("%w: unsupported ecsv delimiter %q", ErrSyntax, h.Delimiter)
	}
	return &h, nil
}

// ecsvType maps an ECSV datatype onto a column type. Unknown datatypes
// (bool, complex, object) are kept as strings.
func ecsvType(datatype string) DataType {
	switch datatype {
	case "float16", "float32", "float64", "float128":
		return Float64
	case "int8", "int16", "int32", "int64", "uint8", "uint16", "uint32", "uint64":
		return Int64
	default:
		return String
	}
}

// decodeMeta accepts both a plain mapping and the !!omap sequence of
// single-key mappings that Astropy writes.
func decodeMeta(n *yaml.Node) ([]MetaItem, error) {
	var items []MetaItem
	add := func(k, v *yaml.Node) {
		items = append(items, MetaItem{Key: k.Value, Value: nodeValue(v)})
	}
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			add(n.Content[i], n.Content[i+1])
		}
	case yaml.SequenceNode:
		for _, entry := range n.Content {
			if entry.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("%w: ecsv meta entries must be mappings", ErrSyntax)
			}
			for i := 0; i+1 < len(entry.Content); i += 2 {
				add(entry.Content[i], entry.Content[i+1])
			}
		}
	default:
		return nil, fmt.Errorf("%w: ecsv meta must be a mapping", ErrSyntax)
	}
	return items, nil
}

// nodeValue decodes a YAML node into plain Go values. Nodes carrying tags
// yaml.v3 cannot resolve are kept as their literal text.
func nodeValue(n *yaml.Node) any {
	var v any
	if err := n.Decode(&v); err != nil {
		return n.Value
	}
	return v
}

// WriteECSV writes t as an Astropy ECSV 1.0 table with a space delimiter.
func WriteECSV(w io.Writer, t *Table) error {
	if err := t.Validate(); err != nil {
		return err
	}

	header, err := encodeECSVHeader(t)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %%ECSV %s\n# ---\n", ecsvVersion)
	for _, line := range strings.Split(strings.TrimRight(string(header), "\n"), "\n") {
		fmt.Fprintf(bw, "# %s\n", line)
	}

	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = quoteField(c.Name, ' ')
	}
	fmt.Fprintln(bw, strings.Join(names, " "))

	fields := make([]string, len(t.Columns))
	for i := 0; i < t.Len(); i++ {
		for j, c := range t.Columns {
			fields[j] = c.Text(i)
			if c.Type == String {
				fields[j] = quoteField(fields[j], ' ')
			}
		}
		fmt.Fprintln(bw, strings.Join(fields, " "))
	}
	return bw.Flush()
}

func encodeECSVHeader(t *Table) ([]byte, error) {
	scalar := func(v string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
	}

	datatype := &yaml.Node{Kind: yaml.SequenceNode}
	for _, c := range t.Columns {
		entry := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
		entry.Content = append(entry.Content, scalar("name"), scalar(c.Name), scalar("datatype"), scalar(string(c.Type)))
		if c.Unit != "" {
			entry.Content = append(entry.Content, scalar("unit"), scalar(c.Unit))
		}
		if c.Description != "" {
			entry.Content = append(entry.Content, scalar("description"), scalar(c.Description))
		}
		datatype.Content = append(datatype.Content, entry)
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content, scalar("datatype"), datatype)
	if len(t.Meta) > 0 {
		meta := &yaml.Node{Kind: yaml.MappingNode}
		for _, m := range t.Meta {
			var value yaml.Node
			if err := value.Encode(m.Value); err != nil {
				return nil, fmt.Errorf("encoding meta %q: %w", m.Key, err)
			}
			meta.Content = append(meta.Content, scalar(m.Key), &value)
		}
		root.Content = append(root.Content, scalar("meta"), meta)
	}
	root.Content = append(root.Content, scalar("schema"), scalar(ecsvSchema))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encoding ecsv header: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding ecsv header: %w", err)
	}
	return buf.Bytes(), nil
}
