package spectrum

import (
	"fmt"

	"gonum.org/v1/gonum/integrate"
)

// Integrate returns the integral of ys over xs using composite Simpson's
// rule, which handles unevenly spaced samples. Two samples fall back to the
// trapezoidal rule.
func Integrate(xs, ys []float64) (float64, error) {
	if len(xs) != len(ys) {
		return 0, fmt.Errorf("%w: %d energies but %d fluxes", ErrTooFewPoints, len(xs), len(ys))
	}
	if err := checkSamples(xs); err != nil {
		return 0, err
	}
	if len(xs) == 2 {
		return integrate.Trapezoidal(xs, ys), nil
	}
	return integrate.Simpsons(xs, ys), nil
}
