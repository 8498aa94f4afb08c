package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/g4spectra/internal/config"
	"github.com/roach88/g4spectra/internal/model"
	"github.com/roach88/g4spectra/internal/table"
)

// GenerateOptions holds flags shared by the generator commands.
type GenerateOptions struct {
	*RootOptions
	Number int
	ELo    float64
	EHi    float64

	// kuznetsov2017 only
	Particle string
	Sunspots float64
	Norm     float64
	Nucleons int
}

// GenerationResult describes a generated spectrum file.
type GenerationResult struct {
	Generator string `json:"generator"`
	Output    string `json:"output"`
	ID        string `json:"id"`
	Points    int    `json:"points"`
}

// NewGruberCommand creates the gruber1999 command.
func NewGruberCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "gruber1999 <ecsvfile>",
		Short: "Generate the cosmic X-ray background spectrum of Gruber et al. (1999)",
		Long: `Generate the diffuse cosmic X-ray and gamma-ray background spectrum of
Gruber et al. (1999) on a log-spaced energy grid in MeV.`,
		Args:          checkArgs(rootOpts, cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGruber(opts, args[0], cmd)
		},
	}

	addGridFlags(cmd, opts, opts.settings().Gruber, "MeV")

	return cmd
}

func runGruber(opts *GenerateOptions, out string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	grid := resolveGrid(cmd, opts.settings().Gruber)
	if err := config.ValidateGrid(grid); err != nil {
		return paramFailure(formatter, "invalid energy grid", err)
	}

	t, err := model.GenerateGruber(grid, opts.Provenance)
	if err != nil {
		return computeFailure(formatter, "generating gruber1999 spectrum", err)
	}
	return writeGenerated(formatter, cmd, model.GeneratorGruber, out, t)
}

// NewKuznetsovCommand creates the kuznetsov2017 command.
func NewKuznetsovCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "kuznetsov2017 <ecsvfile>",
		Short: "Generate a galactic cosmic ray spectrum of Kuznetsov et al. (2017)",
		Long: `Generate the galactic cosmic ray proton or helium spectrum of Kuznetsov
et al. (2017), modulated by solar activity given as the sunspot number.

The energy grid is in MeV/nucleon. The written table holds the total energy
E = x * nucl in MeV and the flux per MeV of total energy.`,
		Args:          checkArgs(rootOpts, cobra.ExactArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKuznetsov(opts, args[0], cmd)
		},
	}

	def := opts.settings().Kuznetsov
	addGridFlags(cmd, opts, def.Grid, "MeV/nucleon")
	cmd.Flags().StringVarP(&opts.Particle, "particle", "p", string(def.Particle), "particle (proton|helium)")
	cmd.Flags().Float64VarP(&opts.Sunspots, "sunspots", "s", def.Sunspots, "sunspot number")
	cmd.Flags().Float64VarP(&opts.Norm, "norm", "N", def.Norm, "normalization factor")
	cmd.Flags().IntVarP(&opts.Nucleons, "nucl", "A", def.Nucleons, "nucleon number of the particle")

	return cmd
}

func runKuznetsov(opts *GenerateOptions, out string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	params := opts.settings().Kuznetsov
	params.Grid = resolveGrid(cmd, params.Grid)
	particle, err := model.ParseParticle(stringFlag(cmd, "particle", string(params.Particle)))
	if err != nil {
		return paramFailure(formatter, "invalid --particle", err)
	}
	params.Particle = particle
	params.Sunspots = float64Flag(cmd, "sunspots", params.Sunspots)
	params.Norm = float64Flag(cmd, "norm", params.Norm)
	params.Nucleons = intFlag(cmd, "nucl", params.Nucleons)

	if err := config.ValidateKuznetsov(params); err != nil {
		return paramFailure(formatter, "invalid kuznetsov2017 parameters", err)
	}

	t, err := model.GenerateKuznetsov(params, opts.Provenance)
	if err != nil {
		return computeFailure(formatter, "generating kuznetsov2017 spectrum", err)
	}
	return writeGenerated(formatter, cmd, model.GeneratorKuznetsov, out, t)
}

func addGridFlags(cmd *cobra.Command, opts *GenerateOptions, def model.Grid, unit string) {
	cmd.Flags().IntVarP(&opts.Number, "number", "n", def.Number, "number of energy points")
	cmd.Flags().Float64VarP(&opts.ELo, "elo", "e", def.ELo, "lowest energy in "+unit)
	cmd.Flags().Float64VarP(&opts.EHi, "ehi", "E", def.EHi, "highest energy in "+unit)
}

func resolveGrid(cmd *cobra.Command, g model.Grid) model.Grid {
	return model.Grid{
		Number: intFlag(cmd, "number", g.Number),
		ELo:    float64Flag(cmd, "elo", g.ELo),
		EHi:    float64Flag(cmd, "ehi", g.EHi),
	}
}

// writeGenerated writes a generated table and reports it. Nothing is
// reported when the table went to stdout.
func writeGenerated(formatter *OutputFormatter, cmd *cobra.Command, generator, out string, t *table.Table) error {
	if err := table.WriteFile(cmd.Context(), out, t, cmd.OutOrStdout()); err != nil {
		return writeFailure(formatter, out, err)
	}
	if out == table.Stdio {
		return nil
	}

	id, _ := t.MetaValue("id")
	res := GenerationResult{
		Generator: generator,
		Output:    out,
		ID:        fmt.Sprint(id),
		Points:    t.Len(),
	}
	slog.Debug("generated spectrum", "generator", generator, "output", out, "id", res.ID)

	return formatter.Result(res, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "✓ Generated %s spectrum with %d points in %s\n", res.Generator, res.Points, res.Output)
		return err
	})
}
