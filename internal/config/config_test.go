package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/g4spectra/internal/model"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.Flux.Interpolate)
	assert.Equal(t, 1000, cfg.Flux.Number)
	assert.Equal(t, "log", cfg.Flux.IPType)
	assert.Equal(t, model.Grid{Number: 1000, ELo: 3e-3, EHi: 1e5}, cfg.Gruber)
	assert.Equal(t, 80.0, cfg.Kuznetsov.ELo)
	assert.Equal(t, model.Proton, cfg.Kuznetsov.Particle)
	assert.Equal(t, 6.4, cfg.Plot.Width)
	assert.Equal(t, "geantino", cfg.Mac.Particle)
	assert.True(t, cfg.Mac.Norm)

	require.NoError(t, cfg.Validate())
}

func TestApply_KeepsUnsetFields(t *testing.T) {
	cfg := Default()
	doc := `
flux:
  iptype: LIN
kuznetsov:
  particle: Helium
  nucl: 4
plot:
  xlog: false
`
	require.NoError(t, cfg.Apply(strings.NewReader(doc)))

	assert.Equal(t, "lin", cfg.Flux.IPType)
	assert.Equal(t, 1000, cfg.Flux.Number)
	assert.True(t, cfg.Flux.Interpolate)
	assert.Equal(t, model.Helium, cfg.Kuznetsov.Particle)
	assert.Equal(t, 4, cfg.Kuznetsov.Nucleons)
	assert.Equal(t, 80.0, cfg.Kuznetsov.ELo)
	assert.False(t, cfg.Plot.XLog)
	assert.True(t, cfg.Plot.YLog)
	require.NoError(t, cfg.Validate())
}

func TestApply_UnknownKey(t *testing.T) {
	cfg := Default()
	err := cfg.Apply(strings.NewReader("flux:\n  points: 10\n"))
	assert.Error(t, err)
}

func TestApply_Empty(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Apply(strings.NewReader("")))
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"grid too small", func(c *Config) { c.Gruber.Number = 1 }, "gruber.number"},
		{"zero lower bound", func(c *Config) { c.Gruber.ELo = 0 }, "gruber.elo"},
		{"reversed bounds", func(c *Config) { c.Kuznetsov.EHi = 10 }, "kuznetsov.ehi"},
		{"unknown particle", func(c *Config) { c.Kuznetsov.Particle = "electron" }, "kuznetsov.particle"},
		{"no nucleons", func(c *Config) { c.Kuznetsov.Nucleons = 0 }, "kuznetsov.nucl"},
		{"negative sunspots", func(c *Config) { c.Kuznetsov.Sunspots = -1 }, "kuznetsov.sunspots"},
		{"unknown iptype", func(c *Config) { c.Flux.IPType = "cubic" }, "flux.iptype"},
		{"zero width", func(c *Config) { c.Plot.Width = 0 }, "plot.width"},
		{"empty mac particle", func(c *Config) { c.Mac.Particle = "" }, "mac.particle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)

			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			fields := make([]string, len(verrs))
			for i, e := range verrs {
				fields[i] = e.Field
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidate_DisjunctionCollapsed(t *testing.T) {
	cfg := Default()
	cfg.Flux.IPType = "cubic"

	var verrs ValidationErrors
	require.ErrorAs(t, cfg.Validate(), &verrs)

	var iptype []ValidationError
	for _, e := range verrs {
		assert.False(t, strings.HasPrefix(e.Field, "#"), "field %q", e.Field)
		assert.NotEmpty(t, e.Message)
		assert.False(t, strings.HasSuffix(e.Message, ":"), "message %q", e.Message)
		if e.Field == "flux.iptype" {
			iptype = append(iptype, e)
		}
	}
	require.Len(t, iptype, 1)
	assert.Contains(t, iptype[0].Message, "cubic")
	assert.NotContains(t, verrs.Error(), "#Config")
}

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "gruber.number", fieldPath([]string{"#Config", "gruber", "number"}))
	assert.Equal(t, "number", fieldPath([]string{"#Grid", "number"}))
	assert.Equal(t, "", fieldPath([]string{"#Flux"}))
	assert.Equal(t, "plot.width", fieldPath([]string{"plot", "width"}))
}

func TestValidateGenerators(t *testing.T) {
	require.NoError(t, ValidateGrid(model.Grid{Number: 2, ELo: 1, EHi: 2}))
	assert.ErrorIs(t, ValidateGrid(model.Grid{Number: 2, ELo: 2, EHi: 1}), ErrInvalid)

	params := Default().Kuznetsov
	require.NoError(t, ValidateKuznetsov(params))
	params.Norm = 0
	assert.ErrorIs(t, ValidateKuznetsov(params), ErrInvalid)

	assert.ErrorIs(t, ValidateFlux(FluxConfig{Interpolate: true, Number: 1, IPType: "log"}), ErrInvalid)
	assert.ErrorIs(t, ValidatePlot(PlotConfig{Particle: "p", Width: 1, Height: -1}), ErrInvalid)
}

func TestYAML_RoundTrip(t *testing.T) {
	data, err := Default().YAML()
	require.NoError(t, err)

	cfg := &Config{}
	require.NoError(t, cfg.Apply(strings.NewReader(string(data))))
	assert.Equal(t, Default(), cfg)
}

func TestLoader_Layers(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigFile),
		[]byte("gruber:\n  number: 50\n  elo: 0.01\nflux:\n  number: 200\n"), 0o644))
	explicit := filepath.Join(dir, "explicit.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("gruber:\n  number: 20\n"), 0o644))

	loader := NewLoader(nil)
	loader.Dir = dir

	cfg, err := loader.Load("")
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Gruber.Number)
	assert.Equal(t, 0.01, cfg.Gruber.ELo)
	assert.Equal(t, 200, cfg.Flux.Number)

	cfg, err = loader.Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Gruber.Number)
	assert.Equal(t, 0.01, cfg.Gruber.ELo)
}

func TestLoader_Errors(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(nil)
	loader.Dir = dir

	_, err := loader.Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("gruber:\n  number: 1\n"), 0o644))
	_, err = loader.Load(bad)
	assert.ErrorIs(t, err, ErrInvalid)
}
