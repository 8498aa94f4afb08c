package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// addBoolPair registers --name and --no-name. resolveBoolPair reads the
// result and rejects giving both.
func addBoolPair(cmd *cobra.Command, name, usage string, def bool) {
	cmd.Flags().Bool(name, def, usage)
	cmd.Flags().Bool("no-"+name, !def, "disable --"+name)
}

// resolveBoolPair returns the value chosen on the command line, or current
// when neither flag of the pair was given.
func resolveBoolPair(cmd *cobra.Command, name string, current bool) (bool, error) {
	flags := cmd.Flags()
	set, unset := flags.Changed(name), flags.Changed("no-"+name)
	switch {
	case set && unset:
		return current, fmt.Errorf("--%s and --no-%s are mutually exclusive", name, name)
	case set:
		v, _ := flags.GetBool(name)
		return v, nil
	case unset:
		v, _ := flags.GetBool("no-" + name)
		return !v, nil
	}
	return current, nil
}

// stringFlag returns the flag value when it was set, otherwise current.
func stringFlag(cmd *cobra.Command, name, current string) string {
	if !cmd.Flags().Changed(name) {
		return current
	}
	v, _ := cmd.Flags().GetString(name)
	return v
}

func intFlag(cmd *cobra.Command, name string, current int) int {
	if !cmd.Flags().Changed(name) {
		return current
	}
	v, _ := cmd.Flags().GetInt(name)
	return v
}

func float64Flag(cmd *cobra.Command, name string, current float64) float64 {
	if !cmd.Flags().Changed(name) {
		return current
	}
	v, _ := cmd.Flags().GetFloat64(name)
	return v
}
