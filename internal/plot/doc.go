// Package plot draws one or more energy spectra into a single figure.
//
// Each spectrum is drawn as unconnected markers, cycling through a fixed
// marker list, with vertical error bars when the table carries the total
// uncertainty columns yerrtot_lo and yerrtot_hi. Both axes are logarithmic
// by default; points that cannot be shown on a log axis are dropped.
package plot
