package spectrum

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"gonum.org/v1/gonum/interp"
)

// Kind selects how flux is interpolated between samples.
type Kind string

const (
	// Log interpolates linearly in log10(E) and log10(flux).
	Log Kind = "log"
	// Lin interpolates linearly in E and flux.
	Lin Kind = "lin"
)

// Kinds lists the supported interpolation kinds.
var Kinds = []Kind{Log, Lin}

// ParseKind parses an interpolation kind, ignoring case.
func ParseKind(s string) (Kind, error) {
	k := Kind(cases.Fold().String(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want log or lin)", ErrUnknownKind, s)
}

// Interpolator is a piecewise linear interpolant over a sampled spectrum.
type Interpolator struct {
	kind   Kind
	lo, hi float64
	pl     interp.PiecewiseLinear
}

// NewInterpolator fits an interpolant of the given kind to (xs, ys).
// xs must be strictly increasing with at least two samples; for Log all
// values must be positive.
func NewInterpolator(kind Kind, xs, ys []float64) (*Interpolator, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d energies but %d fluxes", ErrTooFewPoints, len(xs), len(ys))
	}
	if err := checkSamples(xs); err != nil {
		return nil, err
	}

	fx, fy := xs, ys
	switch kind {
	case Log:
		fx = make([]float64, len(xs))
		fy = make([]float64, len(ys))
		for i := range xs {
			if !(xs[i] > 0) || !(ys[i] > 0) {
				return nil, fmt.Errorf("%w: sample %d is (%g, %g)", ErrNonPositive, i, xs[i], ys[i])
			}
			fx[i] = math.Log10(xs[i])
			fy[i] = math.Log10(ys[i])
		}
	case Lin:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	ip := &Interpolator{kind: kind, lo: xs[0], hi: xs[len(xs)-1]}
	if err := ip.pl.Fit(fx, fy); err != nil {
		return nil, fmt.Errorf("fitting %s interpolant: %w", kind, err)
	}
	return ip, nil
}

// Kind returns the interpolation kind.
func (ip *Interpolator) Kind() Kind {
	return ip.kind
}

// At evaluates the interpolant at x.
func (ip *Interpolator) At(x float64) (float64, error) {
	if x < ip.lo || x > ip.hi || math.IsNaN(x) {
		return 0, fmt.Errorf("%w: %g not in [%g, %g]", ErrOutOfRange, x, ip.lo, ip.hi)
	}
	if ip.kind == Log {
		return math.Pow(10, ip.pl.Predict(math.Log10(x))), nil
	}
	return ip.pl.Predict(x), nil
}

// Resample evaluates the interpolant at every point of xs.
func (ip *Interpolator) Resample(xs []float64) ([]float64, error) {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		y, err := ip.At(x)
		if err != nil {
			return nil, err
		}
		ys[i] = y
	}
	return ys, nil
}

func checkSamples(xs []float64) error {
	if len(xs) < 2 {
		return fmt.Errorf("%w: need at least 2 samples, got %d", ErrTooFewPoints, len(xs))
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return fmt.Errorf("%w: E[%d]=%g follows E[%d]=%g", ErrNotIncreasing, i, xs[i], i-1, xs[i-1])
		}
	}
	return nil
}
