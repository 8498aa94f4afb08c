package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBoolPair(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		current bool
		want    bool
	}{
		{"unset_keeps_true", nil, true, true},
		{"unset_keeps_false", nil, false, false},
		{"enable", []string{"--norm"}, false, true},
		{"disable", []string{"--no-norm"}, true, false},
		{"explicit_false", []string{"--norm=false"}, true, false},
		{"negated_false", []string{"--no-norm=false"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "x"}
			addBoolPair(cmd, "norm", "normalize", true)
			require.NoError(t, cmd.ParseFlags(tt.args))
			got, err := resolveBoolPair(cmd, "norm", tt.current)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveBoolPair_Conflict(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	addBoolPair(cmd, "norm", "normalize", true)
	require.NoError(t, cmd.ParseFlags([]string{"--norm", "--no-norm"}))

	_, err := resolveBoolPair(cmd, "norm", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--norm and --no-norm are mutually exclusive")
}

func TestScalarFlags_FallBackWhenUnset(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().String("particle", "geantino", "")
	cmd.Flags().Int("number", 1000, "")
	cmd.Flags().Float64("elo", 80, "")
	require.NoError(t, cmd.ParseFlags([]string{"--number", "12"}))

	assert.Equal(t, "proton", stringFlag(cmd, "particle", "proton"))
	assert.Equal(t, 12, intFlag(cmd, "number", 5))
	assert.Equal(t, 3.5, float64Flag(cmd, "elo", 3.5))
}
