package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/g4spectra/internal/config"
	"github.com/roach88/g4spectra/internal/plot"
	"github.com/roach88/g4spectra/internal/spectrum"
	"github.com/roach88/g4spectra/internal/table"
)

// PlotOptions holds flags for the plot-spectra command.
type PlotOptions struct {
	*RootOptions
	Particle string
	Labels   string
	FigSize  []float64
	Style    string
}

// PlotResult describes a written figure.
type PlotResult struct {
	Output string   `json:"output"`
	Labels []string `json:"labels"`
}

// NewPlotCommand creates the plot-spectra command.
func NewPlotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plot-spectra <outputfile> <spectra...>",
		Short: "Plot spectra into one figure",
		Long: `Plot the differential flux of one or more spectra against energy.

The image format follows the extension of the output file (png, svg, pdf,
eps, jpg, tif). The output file "-" writes a PNG to stdout. Spectra with
yerrtot_lo and yerrtot_hi columns are drawn with error bars. Arguments may
be glob patterns.`,
		Args:          checkArgs(rootOpts, cobra.MinimumNArgs(2)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(opts, args, cmd)
		},
	}

	def := opts.settings().Plot
	cmd.Flags().StringVarP(&opts.Particle, "particle", "p", def.Particle, "particle name on the flux axis")
	addBoolPair(cmd, "xlog", "logarithmic energy axis", def.XLog)
	addBoolPair(cmd, "ylog", "logarithmic flux axis", def.YLog)
	cmd.Flags().StringVarP(&opts.Labels, "labels", "l", "", "comma separated legend labels, one per spectrum")
	cmd.Flags().Float64SliceVar(&opts.FigSize, "figsize", []float64{def.Width, def.Height}, "figure width and height in inches (W,H)")
	cmd.Flags().StringVar(&opts.Style, "style", def.Style, "YAML style file")

	return cmd
}

func runPlot(opts *PlotOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	out := args[0]

	cfg := opts.settings().Plot
	cfg.Particle = stringFlag(cmd, "particle", cfg.Particle)
	var err error
	if cfg.XLog, err = resolveBoolPair(cmd, "xlog", cfg.XLog); err != nil {
		return paramFailure(formatter, "conflicting flags", err)
	}
	if cfg.YLog, err = resolveBoolPair(cmd, "ylog", cfg.YLog); err != nil {
		return paramFailure(formatter, "conflicting flags", err)
	}
	cfg.Style = stringFlag(cmd, "style", cfg.Style)
	if cmd.Flags().Changed("figsize") {
		if len(opts.FigSize) != 2 {
			return paramFailure(formatter, "invalid --figsize",
				fmt.Errorf("--figsize takes width and height, got %d values", len(opts.FigSize)))
		}
		cfg.Width, cfg.Height = opts.FigSize[0], opts.FigSize[1]
	}
	if err := config.ValidatePlot(cfg); err != nil {
		return paramFailure(formatter, "invalid plot options", err)
	}

	plotOpts := plot.Options{
		Particle: cfg.Particle,
		XLog:     cfg.XLog,
		YLog:     cfg.YLog,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Style:    plot.DefaultStyle(),
	}
	if cfg.Style != "" {
		style, err := plot.LoadStyle(cfg.Style)
		if err != nil {
			code := ErrCodeInvalidParameter
			if errors.Is(err, fs.ErrNotExist) {
				code = ErrCodeNotFound
			}
			return fail(formatter, ExitCommandError, code, "loading style", err)
		}
		plotOpts.Style = style
	}

	paths, err := expandSpectra(args[1:])
	if err != nil {
		return fail(formatter, ExitCommandError, errorCode(err, ErrCodeGeneric), "resolving spectra", err)
	}
	formatter.VerboseLog("Found %d spectrum file(s)", len(paths))

	labels := make([]string, len(paths))
	if cmd.Flags().Changed("labels") {
		parts := strings.Split(opts.Labels, ",")
		if len(parts) != len(paths) {
			return fail(formatter, ExitCommandError, ErrCodeLabelMismatch, "label count mismatch",
				fmt.Errorf("got %d labels for %d spectra", len(parts), len(paths)))
		}
		for i, l := range parts {
			labels[i] = norm.NFC.String(l)
		}
	} else {
		for i, path := range paths {
			labels[i] = spectrum.Name(path)
		}
	}

	series := make([]plot.Series, 0, len(paths))
	for i, path := range paths {
		slog.Debug("reading spectrum", "spectrum", path, "label", labels[i])
		t, err := table.ReadFile(cmd.Context(), path, table.WithStdin(cmd.InOrStdin()))
		if err != nil {
			return readFailure(formatter, path, err)
		}
		s, err := plot.SeriesFromTable(labels[i], t)
		if err != nil {
			return readFailure(formatter, path, err)
		}
		series = append(series, s)
	}

	p, err := plot.Render(series, plotOpts)
	if err != nil {
		return computeFailure(formatter, "rendering figure", err)
	}
	if err := plot.Save(p, out, plotOpts, cmd.OutOrStdout()); err != nil {
		return writeFailure(formatter, out, err)
	}
	if out == plot.Stdout {
		return nil
	}

	res := PlotResult{Output: out, Labels: labels}
	return formatter.Result(res, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "✓ Plotted %d spectra to %s\n", len(series), out)
		return err
	})
}
