package convert

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/g4spectra/internal/table"
)

// DefaultParticle is the GPS particle used when none is given.
const DefaultParticle = "geantino"

// ErrZeroSum is returned when a spectrum cannot be normalized.
var ErrZeroSum = errors.New("flux sums to zero")

// MacroOptions controls WriteMacro.
type MacroOptions struct {
	// Particle is written to /gps/particle.
	Particle string
	// Normalize divides every flux by the sum of all fluxes.
	Normalize bool
}

// WriteMacro writes t as a GPS macro defining an arbitrary point-wise
// energy histogram with log interpolation.
func WriteMacro(w io.Writer, t *table.Table, opts MacroOptions) error {
	energies, err := t.Floats("E")
	if err != nil {
		return err
	}
	fluxes, err := t.Floats("flux")
	if err != nil {
		return err
	}
	particle := opts.Particle
	if particle == "" {
		particle = DefaultParticle
	}

	norm := 1.0
	if opts.Normalize {
		var sum float64
		for _, f := range fluxes {
			sum += f
		}
		if sum == 0 {
			return ErrZeroSum
		}
		norm = sum
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "/gps/particle %s\n\n", particle)
	fmt.Fprint(bw, "/gps/ene/type Arb\n/gps/hist/type arb\n\n")
	for i, e := range energies {
		fmt.Fprintf(bw, "/gps/hist/point    %.4e    %.4e\n", e, fluxes[i]/norm)
	}
	fmt.Fprint(bw, "/gps/hist/inter Log\n")
	return bw.Flush()
}
