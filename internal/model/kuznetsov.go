package model

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
)

// Particle is a cosmic-ray species of the Kuznetsov model.
type Particle string

const (
	Proton Particle = "proton"
	// Helium also stands in for heavier charged particles.
	Helium Particle = "helium"
)

// Particles lists the supported species.
var Particles = []Particle{Proton, Helium}

// ErrUnknownParticle is returned for species the model does not cover.
var ErrUnknownParticle = errors.New("unknown particle")

// ParseParticle parses a species name, ignoring case.
func ParseParticle(s string) (Particle, error) {
	p := Particle(cases.Fold().String(strings.TrimSpace(s)))
	for _, known := range Particles {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want proton or helium)", ErrUnknownParticle, s)
}

// Kuznetsov et al. (2017) coefficients.
const (
	kuznetsovAProton = 1.7e5
	kuznetsovAHelium = 1.0e4
	kuznetsovGamma   = 2.72
	kuznetsovDelta   = 3.7

	kuznetsovKappaProton = 4.64
	kuznetsovKappaHelium = 3.26

	// MeV/nucleon
	kuznetsovEps0Proton = 817
	kuznetsovEps0Helium = 576

	// Above this energy (MeV/nucleon) the flux is unmodulated.
	kuznetsovModulationCutoff = 20000
)

// ModulationPotential returns the modulation potential in MeV/nucleon for
// sunspot number w (formula 6).
func ModulationPotential(p Particle, w float64) (float64, error) {
	switch p {
	case Proton:
		return kuznetsovEps0Proton + kuznetsovKappaProton*w, nil
	case Helium:
		return kuznetsovEps0Helium + kuznetsovKappaHelium*w, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParticle, p)
}

// ModulationFunction returns the solar modulation factor at energy e in
// MeV/nucleon (formula 4).
func ModulationFunction(e float64, p Particle, w float64) (float64, error) {
	phi, err := ModulationPotential(p, w)
	if err != nil {
		return 0, err
	}
	return math.Pow(e/(e+phi), kuznetsovDelta), nil
}

// KuznetsovFlux returns the differential flux in particles /
// (cm² s sr MeV/nucleon) at energy e in MeV/nucleon (formula 3), with
// normalization coefficient norm from table 2 of the paper.
func KuznetsovFlux(e float64, p Particle, w, norm float64) (float64, error) {
	var a float64
	switch p {
	case Proton:
		a = kuznetsovAProton
	case Helium:
		a = kuznetsovAHelium
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownParticle, p)
	}

	modulation := 1.0
	if e <= kuznetsovModulationCutoff {
		m, err := ModulationFunction(e, p, w)
		if err != nil {
			return 0, err
		}
		modulation = m
	}
	return norm * a * math.Pow(e, -kuznetsovGamma) * modulation, nil
}
