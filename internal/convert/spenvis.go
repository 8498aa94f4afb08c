package convert

import (
	"fmt"

	"github.com/roach88/g4spectra/internal/table"
)

// SpenvisColumns are the three columns copied from SPENVIS flux output:
// energy, integral flux and differential flux.
var SpenvisColumns = []string{"E", "IFlux", "flux"}

// m² to cm².
const spenvisAreaFactor = 10000

// SpenvisToMeV sorts a SPENVIS table by energy and converts it in place
// from MeV/n and per m² to MeV and per cm². The integral flux column is
// left untouched.
func SpenvisToMeV(t *table.Table, nucleons int) error {
	if nucleons < 1 {
		return fmt.Errorf("nucleons must be at least 1, got %d", nucleons)
	}
	for _, name := range []string{"E", "flux"} {
		if _, err := t.Floats(name); err != nil {
			return fmt.Errorf("spenvis table: %w", err)
		}
	}
	if err := t.SortBy("E"); err != nil {
		return err
	}
	if err := t.Scale("E", float64(nucleons)); err != nil {
		return err
	}
	if err := t.Divide("flux", float64(nucleons*spenvisAreaFactor)); err != nil {
		return err
	}
	setUnit(t, "E", EnergyUnit)
	setUnit(t, "flux", FluxUnit)
	return nil
}
