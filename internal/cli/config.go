package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/g4spectra/internal/config"
)

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging the built-in defaults,
./` + config.ProjectConfigFile + ` and the file given with --config.

The output is a valid config file.`,
		Args:          checkArgs(rootOpts, cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig(rootOpts, cmd)
		},
	}
	return cmd
}

func runConfig(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	cfg := opts.settings()

	if opts.Format == "json" {
		return formatter.Success(cfg)
	}
	data, err := cfg.YAML()
	if err != nil {
		return computeFailure(formatter, "rendering configuration", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
