package spectrum

import "errors"

var (
	// ErrTooFewPoints is returned when a spectrum has fewer than two samples.
	ErrTooFewPoints = errors.New("too few points")

	// ErrNotIncreasing is returned when energies are not strictly increasing.
	ErrNotIncreasing = errors.New("energies must be strictly increasing")

	// ErrNonPositive is returned when log interpolation meets a value <= 0.
	ErrNonPositive = errors.New("log interpolation requires positive values")

	// ErrOutOfRange is returned for queries outside the sampled energy range.
	ErrOutOfRange = errors.New("energy outside interpolation range")

	// ErrInvalidGrid is returned for bad grid bounds or sizes.
	ErrInvalidGrid = errors.New("invalid energy grid")

	// ErrUnknownKind is returned for an unknown interpolation kind.
	ErrUnknownKind = errors.New("unknown interpolation kind")
)
