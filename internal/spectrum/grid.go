package spectrum

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// LogSpace returns n points spaced evenly in log10 between lo and hi.
// The first and last points are exactly lo and hi.
func LogSpace(lo, hi float64, n int) ([]float64, error) {
	switch {
	case n < 2:
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidGrid, n)
	case !(lo > 0) || math.IsInf(hi, 0):
		return nil, fmt.Errorf("%w: bounds must be positive and finite, got [%g, %g]", ErrInvalidGrid, lo, hi)
	case !(lo < hi):
		return nil, fmt.Errorf("%w: lower bound %g is not below upper bound %g", ErrInvalidGrid, lo, hi)
	}
	xs := floats.LogSpan(make([]float64, n), lo, hi)
	xs[0], xs[n-1] = lo, hi
	return xs, nil
}
