package cli

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/g4spectra/internal/convert"
	"github.com/roach88/g4spectra/internal/table"
)

// ConvertOptions holds flags for the convert subcommands.
type ConvertOptions struct {
	*RootOptions
	Particle string   // ecsv-to-mac --particle
	Names    []string // table --names
}

// ConversionResult describes one converted file.
type ConversionResult struct {
	Input  string `json:"input"`
	Output string `json:"output"`
	Rows   int    `json:"rows"`
	Format string `json:"format"`
}

// NewConvertCommand creates the convert command group.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert spectra between formats and units",
		Long: `Convert spectra from external sources to MeV based tables, and
tables to Geant4 GPS macros.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newCRDBCommand(opts))
	cmd.AddCommand(newSpenvisCommand(opts))
	cmd.AddCommand(newMacroCommand(opts))
	cmd.AddCommand(newTableCommand(opts))

	return cmd
}

func newCRDBCommand(opts *ConvertOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "crdb-dat-to-ecsv <datfile> <ecsvfile>",
		Short: "Convert a Cosmic-Ray DataBase export to MeV units",
		Long: `Read a Cosmic-Ray DataBase (CRDB) .dat export, sort it by energy and
convert GeV to MeV and 1 / (GeV m² s sr) to 1 / (MeV cm² s sr).`,
		Args:          checkArgs(opts.RootOptions, cobra.ExactArgs(2)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCRDB(opts, args, cmd)
		},
	}
}

func runCRDB(opts *ConvertOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	in, out := args[0], args[1]

	t, err := table.ReadFile(cmd.Context(), in,
		table.WithFormat(table.FormatASCII),
		table.WithNames(convert.CRDBColumns...),
		table.WithStdin(cmd.InOrStdin()))
	if err != nil {
		return readFailure(formatter, in, err)
	}
	if err := convert.CRDBToMeV(t); err != nil {
		return readFailure(formatter, in, err)
	}
	return writeTable(formatter, cmd, in, out, t)
}

func newSpenvisCommand(opts *ConvertOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "spenvis-txt-to-ecsv <txtfile> <nucleons> <ecsvfile>",
		Short: "Convert a SPENVIS spectrum to MeV units",
		Long: `Read a SPENVIS spectrum with the columns E, IFlux and flux in MeV/n and
1 / (MeV/n m² s sr), sort it by energy and convert it to MeV and
1 / (MeV cm² s sr) using the nucleon count of the particle.

Arguments that start with a dash, such as a negative number, must follow --.`,
		Args:          checkArgs(opts.RootOptions, cobra.ExactArgs(3)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpenvis(opts, args, cmd)
		},
	}
}

func runSpenvis(opts *ConvertOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	in, out := args[0], args[2]

	nucleons, err := strconv.Atoi(args[1])
	if err != nil || nucleons < 1 {
		return paramFailure(formatter, "invalid nucleons",
			fmt.Errorf("nucleons must be an integer >= 1, got %q", args[1]))
	}

	t, err := table.ReadFile(cmd.Context(), in,
		table.WithFormat(table.FormatASCII),
		table.WithNames(convert.SpenvisColumns...),
		table.WithStdin(cmd.InOrStdin()))
	if err != nil {
		return readFailure(formatter, in, err)
	}
	if err := convert.SpenvisToMeV(t, nucleons); err != nil {
		return readFailure(formatter, in, err)
	}
	return writeTable(formatter, cmd, in, out, t)
}

func newMacroCommand(opts *ConvertOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ecsv-to-mac <ecsvfile> <macfile>",
		Short: "Write a spectrum as a Geant4 GPS macro",
		Long: `Write a spectrum as a Geant4 General Particle Source macro defining an
arbitrary point-wise energy histogram with log interpolation.

With --norm (the default) the fluxes are divided by their sum. The macro
file "-" writes to stdout.`,
		Args:          checkArgs(opts.RootOptions, cobra.ExactArgs(2)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMacro(opts, args, cmd)
		},
	}

	def := opts.settings().Mac
	cmd.Flags().StringVarP(&opts.Particle, "particle", "p", def.Particle, "GPS particle name")
	addBoolPair(cmd, "norm", "normalize the fluxes to a sum of 1", def.Norm)

	return cmd
}

func runMacro(opts *ConvertOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	in, out := args[0], args[1]
	cfg := opts.settings().Mac

	normalize, err := resolveBoolPair(cmd, "norm", cfg.Norm)
	if err != nil {
		return paramFailure(formatter, "conflicting flags", err)
	}
	macOpts := convert.MacroOptions{
		Particle:  stringFlag(cmd, "particle", cfg.Particle),
		Normalize: normalize,
	}

	t, err := table.ReadFile(cmd.Context(), in, table.WithStdin(cmd.InOrStdin()))
	if err != nil {
		return readFailure(formatter, in, err)
	}

	var buf bytes.Buffer
	if err := convert.WriteMacro(&buf, t, macOpts); err != nil {
		return computeFailure(formatter, fmt.Sprintf("writing macro for %s", in), err)
	}

	if out == table.Stdio {
		if _, err := buf.WriteTo(cmd.OutOrStdout()); err != nil {
			return writeFailure(formatter, out, err)
		}
		return nil
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return writeFailure(formatter, out, err)
	}
	slog.Debug("wrote macro", "input", in, "output", out, "points", t.Len(), "particle", macOpts.Particle)

	return reportConversion(formatter, ConversionResult{
		Input:  in,
		Output: out,
		Rows:   t.Len(),
		Format: "mac",
	})
}

func newTableCommand(opts *ConvertOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table <in> <out>",
		Short: "Convert a table between file formats",
		Long: `Convert a table between file formats chosen by extension: .ecsv, .csv,
.parquet, .sqlite and whitespace separated ASCII (read only). A .gz or
.zst suffix compresses the file. "-" reads or writes ECSV on stdio.

Units are left unchanged.`,
		Args:          checkArgs(opts.RootOptions, cobra.ExactArgs(2)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTable(opts, args, cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Names, "names", nil, "column names of ASCII input (comma separated)")

	return cmd
}

func runTable(opts *ConvertOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	in, out := args[0], args[1]

	readOpts := []table.ReadOption{table.WithStdin(cmd.InOrStdin())}
	if len(opts.Names) > 0 {
		readOpts = append(readOpts, table.WithNames(opts.Names...))
	}
	t, err := table.ReadFile(cmd.Context(), in, readOpts...)
	if err != nil {
		return readFailure(formatter, in, err)
	}
	return writeTable(formatter, cmd, in, out, t)
}

// writeTable writes t to out and reports the conversion. Nothing is
// reported when the table itself went to stdout.
func writeTable(formatter *OutputFormatter, cmd *cobra.Command, in, out string, t *table.Table) error {
	if err := table.WriteFile(cmd.Context(), out, t, cmd.OutOrStdout()); err != nil {
		return writeFailure(formatter, out, err)
	}
	if out == table.Stdio {
		return nil
	}
	format := table.DetectFormat(out)
	slog.Debug("wrote table", "input", in, "output", out, "rows", t.Len(), "format", format)

	return reportConversion(formatter, ConversionResult{
		Input:  in,
		Output: out,
		Rows:   t.Len(),
		Format: string(format),
	})
}

func reportConversion(formatter *OutputFormatter, res ConversionResult) error {
	return formatter.Result(res, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "✓ Converted %s to %s (%d rows)\n", res.Input, res.Output, res.Rows)
		return err
	})
}
