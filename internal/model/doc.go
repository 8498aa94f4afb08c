// Package model evaluates closed-form spectral models on energy grids.
//
// Two models are provided:
//
//   - Gruber et al. (1999): the diffuse cosmic X-ray and gamma-ray
//     background, valid from a few keV to ~100 GeV.
//   - Kuznetsov et al. (2017): galactic cosmic-ray protons and helium (and,
//     by scaling, heavier charged particles) modulated by solar activity,
//     parameterized by the monthly smoothed sunspot number.
//
// Generated spectra are tables with an energy column E in MeV and a flux
// column in 1 / (cm² s sr MeV), tagged with provenance metadata.
package model
