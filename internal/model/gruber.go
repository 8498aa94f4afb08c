package model

import "math"

// Break energy between the two branches of the Gruber fit, in keV.
const gruberBreakKeV = 60

// GruberSpectrum returns the Gruber et al. (1999) photon spectrum
// E·dN/dE in keV / (cm² s sr keV) at energy e in keV.
func GruberSpectrum(e float64) float64 {
	if e <= gruberBreakKeV {
		return 7.877 * math.Pow(e, -0.29) * math.Exp(-e/41.13)
	}
	x := e / gruberBreakKeV
	return 0.0259*math.Pow(x, -5.5) + 0.504*math.Pow(x, -1.58) + 0.0288*math.Pow(x, -1.05)
}

// GruberFlux returns the photon flux in counts / (MeV cm² s sr) at energy
// e in MeV.
func GruberFlux(e float64) float64 {
	keV := e * 1000
	return 1000 * GruberSpectrum(keV) / keV
}
