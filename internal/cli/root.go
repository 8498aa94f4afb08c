package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/g4spectra/internal/config"
	"github.com/roach88/g4spectra/internal/model"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Config is the merged configuration, loaded before any subcommand runs.
	Config *config.Config
	// Provenance stamps generated spectra; zero means UUIDv7 and wall clock.
	Provenance model.Provenance
}

// settings returns the loaded configuration, or the defaults when a
// subcommand runs without the root command.
func (o *RootOptions) settings() *config.Config {
	if o.Config == nil {
		return config.Default()
	}
	return o.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the g4spectra CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "g4spectra",
		Short: "Convert and create input spectra for the Geant4 GPS",
		Long: `Convert, generate and plot particle flux spectra of radiation
environments in space for the Geant4 General Particle Source (GPS).

Spectra are tables with an energy column E in MeV and a differential flux
column flux in 1 / (cm² s sr MeV). They are read and written as ECSV, CSV,
Parquet or SQLite files, optionally compressed with gzip or zstd.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				bad := opts.Format
				opts.Format = "text"
				return paramFailure(newFormatter(opts, cmd), "invalid --format",
					fmt.Errorf("invalid format %q: must be one of %v", bad, ValidFormats))
			}
			setupLogging(cmd.ErrOrStderr(), opts.Verbose)

			cfg, err := config.NewLoader(slog.Default()).Load(opts.ConfigPath)
			if err != nil {
				code := ErrCodeConfigInvalid
				if errors.Is(err, fs.ErrNotExist) {
					code = ErrCodeNotFound
				}
				return fail(newFormatter(opts, cmd), ExitCommandError, code, "loading configuration", err)
			}
			opts.Config = cfg
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "YAML config file (applied after ./"+config.ProjectConfigFile+")")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return paramFailure(newFormatter(opts, c), "invalid flags", err)
	})

	// Add subcommands
	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewFluxCommand(opts))
	cmd.AddCommand(NewGruberCommand(opts))
	cmd.AddCommand(NewKuznetsovCommand(opts))
	cmd.AddCommand(NewPlotCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// setupLogging sends slog output to w, at debug level when verbose.
func setupLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
