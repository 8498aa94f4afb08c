// Package spectrum computes total fluxes of tabulated energy spectra.
//
// A spectrum is a table with an energy column E (MeV) and a differential
// flux column flux (particles / (cm² s sr MeV)). The total flux is the
// integral of flux over E. Samples may first be resampled on a log-spaced
// grid using log-log or linear interpolation; the integral itself uses
// composite Simpson's rule on the (possibly irregular) samples.
package spectrum
