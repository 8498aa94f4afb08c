package plot

import (
	"github.com/roach88/g4spectra/internal/spectrum"
	"github.com/roach88/g4spectra/internal/table"
)

// Columns holding the lower and upper total uncertainty of the flux.
const (
	ErrLoColumn = "yerrtot_lo"
	ErrHiColumn = "yerrtot_hi"
)

// Series is one spectrum to draw.
type Series struct {
	Label string
	E     []float64
	Flux  []float64
	// ErrLo and ErrHi are nil when the spectrum has no uncertainties.
	ErrLo []float64
	ErrHi []float64
}

// HasErrors reports whether error bars should be drawn.
func (s Series) HasErrors() bool {
	return s.ErrLo != nil && s.ErrHi != nil
}

// SeriesFromTable extracts a series from a spectrum table. Error bars are
// taken only when both uncertainty columns are present.
func SeriesFromTable(label string, t *table.Table) (Series, error) {
	e, err := t.Floats(spectrum.EnergyColumn)
	if err != nil {
		return Series{}, err
	}
	flux, err := t.Floats(spectrum.FluxColumn)
	if err != nil {
		return Series{}, err
	}
	s := Series{Label: label, E: e, Flux: flux}
	if t.HasColumn(ErrLoColumn) && t.HasColumn(ErrHiColumn) {
		if s.ErrLo, err = t.Floats(ErrLoColumn); err != nil {
			return Series{}, err
		}
		if s.ErrHi, err = t.Floats(ErrHiColumn); err != nil {
			return Series{}, err
		}
	}
	return s, nil
}
