package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/g4spectra/internal/config"
	"github.com/roach88/g4spectra/internal/spectrum"
	"github.com/roach88/g4spectra/internal/testutil"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "g4spectra", cmd.Use)
	assert.Contains(t, cmd.Long, "General Particle Source")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"convert"},
		{"convert", "crdb-dat-to-ecsv"},
		{"convert", "spenvis-txt-to-ecsv"},
		{"convert", "ecsv-to-mac"},
		{"convert", "table"},
		{"flux"},
		{"gruber1999"},
		{"kuznetsov2017"},
		{"plot-spectra"},
		{"config"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestFlagDefaultsFollowConfig(t *testing.T) {
	cmd := NewRootCommand()
	def := config.Default()

	fluxCmd, _, err := cmd.Find([]string{"flux"})
	require.NoError(t, err)
	assert.Equal(t, "1000", fluxCmd.Flags().Lookup("number").DefValue)
	assert.Equal(t, "t", fluxCmd.Flags().Lookup("iptype").Shorthand)
	assert.Equal(t, def.Flux.IPType, fluxCmd.Flags().Lookup("iptype").DefValue)

	kzCmd, _, err := cmd.Find([]string{"kuznetsov2017"})
	require.NoError(t, err)
	assert.Equal(t, "80", kzCmd.Flags().Lookup("elo").DefValue)
	assert.Equal(t, "A", kzCmd.Flags().Lookup("nucl").Shorthand)
	assert.Equal(t, "proton", kzCmd.Flags().Lookup("particle").DefValue)

	plotCmd, _, err := cmd.Find([]string{"plot-spectra"})
	require.NoError(t, err)
	assert.NotNil(t, plotCmd.Flags().Lookup("figsize"))
	assert.NotNil(t, plotCmd.Flags().Lookup("no-xlog"))
}

func TestFormatValidation(t *testing.T) {
	// Test valid formats
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	// Test invalid formats
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	_, stderr, err := execute(t, NewRootCommand(), "--format", "invalid", "config")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid format")
	assert.Contains(t, stderr, "Error [E020]")
}

func TestUnknownFlag(t *testing.T) {
	_, stderr, err := execute(t, NewRootCommand(), "flux", "--bogus", "x.ecsv")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "Error [E020]")
}

func TestConfigFile_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteSpectrum(t, dir, "line.ecsv", []float64{1, 2, 3}, []float64{1, 1, 1})
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("flux:\n  number: 50\n  iptype: LIN\n"), 0o644))

	stdout, _, err := execute(t, NewRootCommand(), "--format", "json", "--config", cfgPath, "flux", path)
	require.NoError(t, err)

	var results []spectrum.Result
	resp := decodeResponse(t, stdout, &results)
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, results, 1)
	assert.Equal(t, 50, results[0].Points)
	assert.Equal(t, spectrum.Lin, results[0].Kind)
	assert.InDelta(t, 2.0, results[0].Total, 1e-9)
}

func TestConfigFile_FlagsWin(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteSpectrum(t, dir, "line.ecsv", []float64{1, 2, 3}, []float64{1, 1, 1})
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("flux:\n  number: 50\n"), 0o644))

	stdout, _, err := execute(t, NewRootCommand(), "--format", "json", "--config", cfgPath, "flux", "-n", "7", path)
	require.NoError(t, err)

	var results []spectrum.Result
	decodeResponse(t, stdout, &results)
	require.Len(t, results, 1)
	assert.Equal(t, 7, results[0].Points)
}

func TestConfigFile_Errors(t *testing.T) {
	dir := t.TempDir()
	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("gruber:\n  number: 1\n"), 0o644))

	tests := []struct {
		name string
		path string
		code string
	}{
		{"missing", filepath.Join(dir, "missing.yaml"), ErrCodeNotFound},
		{"schema_violation", invalid, ErrCodeConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, NewRootCommand(), "--format", "json", "--config", tt.path, "config")
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			resp := decodeResponse(t, stdout, nil)
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestConfigCommand(t *testing.T) {
	stdout, _, err := execute(t, NewRootCommand(), "config")
	require.NoError(t, err)
	assert.Contains(t, stdout, "iptype: log")
	assert.Contains(t, stdout, "nucl: 1")

	stdout, _, err = execute(t, NewRootCommand(), "--format", "json", "config")
	require.NoError(t, err)
	var cfg config.Config
	resp := decodeResponse(t, stdout, &cfg)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, *config.Default(), cfg)
}

func TestConfigCommand_RejectsArgs(t *testing.T) {
	_, _, err := execute(t, NewRootCommand(), "config", "extra")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
