package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/g4spectra/internal/config"
	"github.com/roach88/g4spectra/internal/spectrum"
	"github.com/roach88/g4spectra/internal/table"
)

// FluxOptions holds flags for the flux command.
type FluxOptions struct {
	*RootOptions
	Number int
	IPType string
}

// NewFluxCommand creates the flux command.
func NewFluxCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FluxOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "flux <spectra...>",
		Short: "Compute the total flux of spectra",
		Long: `Integrate the differential flux of each spectrum over its energy range.

By default every spectrum is first resampled on a log-spaced energy grid by
log-log interpolation and then integrated with Simpson's rule. Arguments
may be glob patterns; ** matches across directories.`,
		Args:          checkArgs(rootOpts, cobra.MinimumNArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlux(opts, args, cmd)
		},
	}

	def := opts.settings().Flux
	addBoolPair(cmd, "interpolate", "resample on a log-spaced grid before integrating", def.Interpolate)
	cmd.Flags().IntVarP(&opts.Number, "number", "n", def.Number, "number of resampling points")
	cmd.Flags().StringVarP(&opts.IPType, "iptype", "t", def.IPType, "interpolation kind (log|lin)")

	return cmd
}

func runFlux(opts *FluxOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg := opts.settings().Flux
	interpolate, err := resolveBoolPair(cmd, "interpolate", cfg.Interpolate)
	if err != nil {
		return paramFailure(formatter, "conflicting flags", err)
	}
	cfg.Interpolate = interpolate
	cfg.Number = intFlag(cmd, "number", cfg.Number)
	cfg.IPType = stringFlag(cmd, "iptype", cfg.IPType)

	kind, err := spectrum.ParseKind(cfg.IPType)
	if err != nil {
		return paramFailure(formatter, "invalid --iptype", err)
	}
	cfg.IPType = string(kind)
	if err := config.ValidateFlux(cfg); err != nil {
		return paramFailure(formatter, "invalid flux options", err)
	}

	paths, err := expandSpectra(args)
	if err != nil {
		return fail(formatter, ExitCommandError, errorCode(err, ErrCodeGeneric), "resolving spectra", err)
	}
	formatter.VerboseLog("Found %d spectrum file(s)", len(paths))

	fluxOpts := spectrum.Options{
		Interpolate: cfg.Interpolate,
		Points:      cfg.Number,
		Kind:        kind,
	}
	results := make([]spectrum.Result, 0, len(paths))
	for _, path := range paths {
		slog.Debug("computing total flux", "spectrum", path, "interpolate", fluxOpts.Interpolate, "kind", kind)
		t, err := table.ReadFile(cmd.Context(), path, table.WithStdin(cmd.InOrStdin()))
		if err != nil {
			return readFailure(formatter, path, err)
		}
		res, err := spectrum.TotalFlux(spectrum.Name(path), t, fluxOpts)
		if err != nil {
			return computeFailure(formatter, fmt.Sprintf("total flux of %s", path), err)
		}
		results = append(results, res)
	}

	return formatter.Result(results, func(w io.Writer) error {
		for _, res := range results {
			if _, err := fmt.Fprintln(w, formatTotalFlux(res)); err != nil {
				return err
			}
		}
		return nil
	})
}

// formatTotalFlux renders one result as a line of text.
func formatTotalFlux(res spectrum.Result) string {
	return fmt.Sprintf("Total flux of spectrum '%s': %s particles / (cm² * s * sr) in [%s, %s] MeV",
		res.Name, table.FormatFloat(res.Total), table.FormatFloat(res.EMin), table.FormatFloat(res.EMax))
}
