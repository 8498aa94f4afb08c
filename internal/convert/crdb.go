package convert

import (
	"fmt"

	"github.com/roach88/g4spectra/internal/table"
)

// CRDBColumns are the columns of a Cosmic-Ray DataBase (CRDB) export.
var CRDBColumns = []string{
	"Qty", "E", "E_lo", "E_up", "flux",
	"ystat_lo", "ystat_up", "ysyst_lo", "ysyst_up", "yerrtot_lo", "yerrtot_hi",
}

var (
	crdbEnergyColumns = []string{"E", "E_lo", "E_up"}
	crdbFluxColumns   = []string{"flux", "ystat_lo", "ystat_up", "ysyst_lo", "ysyst_up", "yerrtot_lo", "yerrtot_hi"}
)

const (
	// GeV to MeV.
	crdbEnergyFactor = 1000
	// 1 / (GeV m² s sr) to 1 / (MeV cm² s sr).
	crdbFluxFactor = 1e-7
)

// CRDBToMeV sorts a CRDB table by energy and converts it in place to MeV
// and per cm².
func CRDBToMeV(t *table.Table) error {
	for _, name := range CRDBColumns[1:] {
		if _, err := t.Floats(name); err != nil {
			return fmt.Errorf("crdb table: %w", err)
		}
	}
	if err := t.SortBy("E"); err != nil {
		return err
	}
	for _, name := range crdbEnergyColumns {
		if err := t.Scale(name, crdbEnergyFactor); err != nil {
			return err
		}
		setUnit(t, name, EnergyUnit)
	}
	for _, name := range crdbFluxColumns {
		if err := t.Scale(name, crdbFluxFactor); err != nil {
			return err
		}
		setUnit(t, name, FluxUnit)
	}
	return nil
}

func setUnit(t *table.Table, name, unit string) {
	if c, ok := t.Column(name); ok {
		c.Unit = unit
	}
}
