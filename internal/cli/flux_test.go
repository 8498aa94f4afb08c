package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/g4spectra/internal/spectrum"
	"github.com/roach88/g4spectra/internal/table"
	"github.com/roach88/g4spectra/internal/testutil"
)

func TestFlux_Text(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSpectrum(t, dir, "a.ecsv", []float64{1, 3}, []float64{1, 1})
	testutil.WriteSpectrum(t, dir, "b.ecsv", []float64{10, 20}, []float64{0.5, 0.5})

	stdout, _, err := execute(t, NewFluxCommand(testRootOptions("text")),
		"--no-interpolate", filepath.Join(dir, "a.ecsv"), filepath.Join(dir, "b.ecsv"))
	require.NoError(t, err)
	testutil.AssertGolden(t, "flux_text", []byte(stdout))
}

func TestFlux_JSONGlob(t *testing.T) {
	dir := t.TempDir()
	e, f := testutil.PowerLaw(t, 1, 100, 20, 2)
	testutil.WriteSpectrum(t, dir, "b.ecsv", e, f)
	testutil.WriteSpectrum(t, dir, "a.ecsv.gz", []float64{1, 2, 3}, []float64{2, 2, 2})

	stdout, _, err := execute(t, NewFluxCommand(testRootOptions("json")), filepath.Join(dir, "*.ecsv*"))
	require.NoError(t, err)

	var results []spectrum.Result
	resp := decodeResponse(t, stdout, &results)
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, results, 2)

	assert.Equal(t, "a", results[0].Name)
	assert.InDelta(t, 4.0, results[0].Total, 1e-9)
	assert.Equal(t, "b", results[1].Name)
	assert.InDelta(t, 0.99, results[1].Total, 1e-4)
	assert.Equal(t, 1000, results[1].Points)
	assert.Equal(t, spectrum.Log, results[1].Kind)
}

func TestFlux_NoInterpolate(t *testing.T) {
	path := testutil.WriteSpectrum(t, t.TempDir(), "flat.ecsv", []float64{1, 2, 3}, []float64{1, 1, 1})

	stdout, _, err := execute(t, NewFluxCommand(testRootOptions("json")), "--no-interpolate", path)
	require.NoError(t, err)

	var results []spectrum.Result
	decodeResponse(t, stdout, &results)
	require.Len(t, results, 1)
	assert.InDelta(t, 2.0, results[0].Total, 1e-12)
	assert.Equal(t, 3, results[0].Points)
	assert.Empty(t, results[0].Kind)
}

func TestFlux_LinCaseInsensitive(t *testing.T) {
	path := testutil.WriteSpectrum(t, t.TempDir(), "ramp.ecsv", []float64{1, 3}, []float64{1, 3})

	stdout, _, err := execute(t, NewFluxCommand(testRootOptions("json")), "-t", "LIN", "-n", "101", path)
	require.NoError(t, err)

	var results []spectrum.Result
	decodeResponse(t, stdout, &results)
	require.Len(t, results, 1)
	assert.InDelta(t, 4.0, results[0].Total, 1e-9)
	assert.Equal(t, spectrum.Lin, results[0].Kind)
	assert.Equal(t, 101, results[0].Points)
}

func TestFlux_Errors(t *testing.T) {
	dir := t.TempDir()
	good := testutil.WriteSpectrum(t, dir, "good.ecsv", []float64{1, 2, 3}, []float64{1, 1, 1})
	repeated := testutil.WriteSpectrum(t, dir, "repeated.ecsv", []float64{1, 1, 2}, []float64{1, 1, 1})
	negative := testutil.WriteSpectrum(t, dir, "negative.ecsv", []float64{1, 2, 3}, []float64{1, -1, 1})

	tests := []struct {
		name string
		args []string
		exit int
		code string
	}{
		{"missing_file", []string{filepath.Join(dir, "nope.ecsv")}, ExitCommandError, ErrCodeNotFound},
		{"no_glob_match", []string{filepath.Join(dir, "*.parquet")}, ExitCommandError, ErrCodeNotFound},
		{"bad_iptype", []string{"-t", "cubic", good}, ExitCommandError, ErrCodeInvalidParameter},
		{"grid_too_small", []string{"-n", "1", good}, ExitCommandError, ErrCodeInvalidParameter},
		{"not_increasing", []string{repeated}, ExitFailure, ErrCodeInterpolation},
		{"negative_flux_log", []string{negative}, ExitFailure, ErrCodeInterpolation},
		{"conflicting_pair", []string{"--interpolate", "--no-interpolate", good}, ExitCommandError, ErrCodeInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := execute(t, NewFluxCommand(testRootOptions("text")), tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.exit, GetExitCode(err))
			if tt.code != "" {
				assert.Contains(t, stderr, "Error ["+tt.code+"]")
			}
		})
	}
}

func TestFlux_ConflictingPairJSON(t *testing.T) {
	good := testutil.WriteSpectrum(t, t.TempDir(), "good.ecsv", []float64{1, 2, 3}, []float64{1, 1, 1})

	stdout, _, err := execute(t, NewFluxCommand(testRootOptions("json")), "--interpolate", "--no-interpolate", good)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, stdout, nil)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidParameter, resp.Error.Code)
}

func TestFlux_MissingFluxColumn(t *testing.T) {
	tbl := table.New()
	_, err := tbl.AddFloatColumn("E", []float64{1, 2})
	require.NoError(t, err)
	_, err = tbl.AddFloatColumn("counts", []float64{3, 4})
	require.NoError(t, err)
	path := testutil.WriteTable(t, t.TempDir(), "counts.csv", tbl)

	_, stderr, err := execute(t, NewFluxCommand(testRootOptions("text")), path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "Error [E010]")
}

func TestFormatTotalFlux(t *testing.T) {
	line := formatTotalFlux(spectrum.Result{Name: "gcr", Total: 0.5, EMin: 10, EMax: 1e5})
	assert.Equal(t, "Total flux of spectrum 'gcr': 0.5 particles / (cm² * s * sr) in [10.0, 100000.0] MeV", line)
}
