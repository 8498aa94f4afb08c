package convert

// Units written on converted columns.
const (
	EnergyUnit = "MeV"
	FluxUnit   = "1 / (cm2 MeV s sr)"
)
