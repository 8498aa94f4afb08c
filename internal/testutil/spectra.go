package testutil

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/g4spectra/internal/table"
)

// WriteSpectrum writes a two column spectrum (E, flux) to dir/name and
// returns its path. The format follows the extension of name.
func WriteSpectrum(t *testing.T, dir, name string, energies, fluxes []float64) string {
	t.Helper()
	tbl := table.New()
	e, err := tbl.AddFloatColumn("E", energies)
	require.NoError(t, err)
	e.Unit = "MeV"
	_, err = tbl.AddFloatColumn("flux", fluxes)
	require.NoError(t, err)
	return WriteTable(t, dir, name, tbl)
}

// WriteTable writes tbl to dir/name and returns its path.
func WriteTable(t *testing.T, dir, name string, tbl *table.Table) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, table.WriteFile(context.Background(), path, tbl, nil))
	return path
}

// PowerLaw samples flux = E^-index on n log-spaced energies in [lo, hi].
func PowerLaw(t *testing.T, lo, hi float64, n int, index float64) (energies, fluxes []float64) {
	t.Helper()
	energies = make([]float64, n)
	fluxes = make([]float64, n)
	ratio := hi / lo
	for i := range energies {
		energies[i] = lo * math.Pow(ratio, float64(i)/float64(n-1))
		fluxes[i] = math.Pow(energies[i], -index)
	}
	energies[n-1] = hi
	fluxes[n-1] = math.Pow(hi, -index)
	return energies, fluxes
}
