// Package config provides the layered configuration of g4spectra.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/roach88/g4spectra/internal/model"
)

// Config holds the defaults of every command. Command-line flags override
// these values.
type Config struct {
	Flux      FluxConfig            `yaml:"flux" json:"flux"`
	Gruber    model.Grid            `yaml:"gruber" json:"gruber"`
	Kuznetsov model.KuznetsovParams `yaml:"kuznetsov" json:"kuznetsov"`
	Plot      PlotConfig            `yaml:"plot" json:"plot"`
	Mac       MacroConfig           `yaml:"mac" json:"mac"`
}

// FluxConfig configures the flux command.
type FluxConfig struct {
	// Interpolate resamples spectra on a log grid before integrating.
	Interpolate bool `yaml:"interpolate" json:"interpolate"`
	// Number is the size of the resampling grid.
	Number int `yaml:"number" json:"number"`
	// IPType is the interpolation kind, log or lin.
	IPType string `yaml:"iptype" json:"iptype"`
}

// PlotConfig configures plot-spectra.
type PlotConfig struct {
	Particle string  `yaml:"particle" json:"particle"`
	XLog     bool    `yaml:"xlog" json:"xlog"`
	YLog     bool    `yaml:"ylog" json:"ylog"`
	Width    float64 `yaml:"width" json:"width"`
	Height   float64 `yaml:"height" json:"height"`
	// Style is the path of a YAML style file (empty = built-in style).
	Style string `yaml:"style" json:"style"`
}

// MacroConfig configures ecsv-to-mac.
type MacroConfig struct {
	Particle string `yaml:"particle" json:"particle"`
	Norm     bool   `yaml:"norm" json:"norm"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Flux: FluxConfig{
			Interpolate: true,
			Number:      1000,
			IPType:      "log",
		},
		Gruber: model.Grid{Number: 1000, ELo: 3e-3, EHi: 1e5},
		Kuznetsov: model.KuznetsovParams{
			Grid:     model.Grid{Number: 1000, ELo: 80, EHi: 1e5},
			Particle: model.Proton,
			Sunspots: 0,
			Norm:     1,
			Nucleons: 1,
		},
		Plot: PlotConfig{
			Particle: "particles",
			XLog:     true,
			YLog:     true,
			Width:    6.4,
			Height:   4.8,
		},
		Mac: MacroConfig{
			Particle: "geantino",
			Norm:     true,
		},
	}
}

// Apply decodes a YAML document on top of c. Keys missing from the
// document keep their current values; unknown keys are errors.
func (c *Config) Apply(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	c.normalize()
	return nil
}

// ApplyFile decodes the YAML file at path on top of c.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := c.Apply(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// normalize folds the case of enumerated values.
func (c *Config) normalize() {
	fold := cases.Fold()
	c.Flux.IPType = fold.String(strings.TrimSpace(c.Flux.IPType))
	c.Kuznetsov.Particle = model.Particle(fold.String(strings.TrimSpace(string(c.Kuznetsov.Particle))))
}

// YAML renders the configuration as a YAML document.
func (c *Config) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return buf.Bytes(), nil
}
