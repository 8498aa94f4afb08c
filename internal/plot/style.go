package plot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Legend positions accepted by Style.Legend.
const (
	LegendTopRight    = "top-right"
	LegendTopLeft     = "top-left"
	LegendBottomRight = "bottom-right"
	LegendBottomLeft  = "bottom-left"
)

// Style tweaks the look of a figure. Zero values keep the defaults.
type Style struct {
	Title string `yaml:"title"`
	// FontSize is the label font size in points.
	FontSize float64 `yaml:"font_size"`
	Grid     bool    `yaml:"grid"`
	Legend   string  `yaml:"legend"`
	// MarkerSize is the marker radius in points.
	MarkerSize float64 `yaml:"marker_size"`
}

// DefaultStyle returns the built-in style.
func DefaultStyle() Style {
	return Style{
		FontSize:   10,
		Legend:     LegendTopRight,
		MarkerSize: 2.5,
	}
}

// LoadStyle reads a YAML style file on top of DefaultStyle.
func LoadStyle(path string) (Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Style{}, fmt.Errorf("reading style: %w", err)
	}
	style := DefaultStyle()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&style); err != nil && !errors.Is(err, io.EOF) {
		return Style{}, fmt.Errorf("parsing style %s: %w", path, err)
	}
	if err := style.Validate(); err != nil {
		return Style{}, fmt.Errorf("style %s: %w", path, err)
	}
	return style, nil
}

// Validate checks sizes and the legend position.
func (s Style) Validate() error {
	if s.FontSize < 0 {
		return fmt.Errorf("font_size must not be negative, got %g", s.FontSize)
	}
	if s.MarkerSize < 0 {
		return fmt.Errorf("marker_size must not be negative, got %g", s.MarkerSize)
	}
	switch s.Legend {
	case "", LegendTopRight, LegendTopLeft, LegendBottomRight, LegendBottomLeft:
		return nil
	}
	return fmt.Errorf("unknown legend position %q", s.Legend)
}
