package greenops

import (
	"math"
	"strings"
)

// checkKg validates a carbon amount. Footprints are always reported in
// kilograms, so kg and kgCO2e (any case) are the only units and an empty
// unit means kilograms.
func checkKg(value float64, unit string) (float64, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrCalculationOverflow
	}
	if value < 0 {
		return 0, ErrNegativeValue
	}
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "kg", "kgco2e", "":
		return value, nil
	default:
		return 0, ErrInvalidUnit
	}
}
