package spectrum

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/g4spectra/internal/table"
)

// Column names of a spectrum table.
const (
	EnergyColumn = "E"
	FluxColumn   = "flux"
)

// Options controls TotalFlux.
type Options struct {
	// Interpolate resamples the spectrum on a log-spaced grid before
	// integrating.
	Interpolate bool
	// Points is the size of the resampling grid.
	Points int
	// Kind is the interpolation kind used for resampling.
	Kind Kind
}

// DefaultOptions returns log interpolation on 1000 points.
func DefaultOptions() Options {
	return Options{Interpolate: true, Points: 1000, Kind: Log}
}

// Result is the total flux of one spectrum.
type Result struct {
	Name   string  `json:"name"`
	Total  float64 `json:"total"`
	EMin   float64 `json:"e_min"`
	EMax   float64 `json:"e_max"`
	Points int     `json:"points"`
	Kind   Kind    `json:"kind,omitempty"`
}

// TotalFlux integrates the flux column of t over its energy column.
func TotalFlux(name string, t *table.Table, opts Options) (Result, error) {
	energies, err := t.Floats(EnergyColumn)
	if err != nil {
		return Result{}, err
	}
	fluxes, err := t.Floats(FluxColumn)
	if err != nil {
		return Result{}, err
	}
	if len(energies) < 2 {
		return Result{}, fmt.Errorf("spectrum %q: %w: need at least 2 samples, got %d", name, ErrTooFewPoints, len(energies))
	}

	res := Result{
		Name: name,
		EMin: energies[0],
		EMax: energies[len(energies)-1],
	}

	xs, ys := energies, fluxes
	if opts.Interpolate {
		ip, err := NewInterpolator(opts.Kind, energies, fluxes)
		if err != nil {
			return Result{}, fmt.Errorf("spectrum %q: %w", name, err)
		}
		xs, err = LogSpace(res.EMin, res.EMax, opts.Points)
		if err != nil {
			return Result{}, fmt.Errorf("spectrum %q: %w", name, err)
		}
		ys, err = ip.Resample(xs)
		if err != nil {
			return Result{}, fmt.Errorf("spectrum %q: %w", name, err)
		}
		res.Kind = opts.Kind
	}

	res.Total, err = Integrate(xs, ys)
	if err != nil {
		return Result{}, fmt.Errorf("spectrum %q: %w", name, err)
	}
	res.Points = len(xs)
	return res, nil
}

// Name derives a spectrum name from its file path: the base name without
// compression suffix and without a .ecsv extension, in NFC form.
func Name(path string) string {
	base, _ := table.SplitCompression(filepath.Base(path))
	base = strings.TrimSuffix(base, ".ecsv")
	return norm.NFC.String(base)
}
