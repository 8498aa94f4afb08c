// Package convert turns spectra published by external tools into the
// canonical spectrum table (E in MeV, flux in 1 / (cm² s sr MeV)) and
// renders spectra as Geant4 GPS macros.
package convert
