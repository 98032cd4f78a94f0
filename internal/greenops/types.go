// Package greenops turns an annual carbon footprint into relatable
// real-world equivalencies such as miles driven or tree seedlings needed to
// absorb it, using EPA-published conversion factors.
package greenops

import "fmt"

// EquivalencyType identifies one kind of equivalency.
type EquivalencyType int

const (
	// EquivalencyMilesDriven converts CO2e to miles driven in an average
	// passenger vehicle.
	EquivalencyMilesDriven EquivalencyType = iota

	// EquivalencySmartphonesCharged converts CO2e to full smartphone charges.
	EquivalencySmartphonesCharged

	// EquivalencyTreeSeedlings converts CO2e to tree seedlings grown for ten
	// years to absorb it.
	EquivalencyTreeSeedlings

	// EquivalencyHomeDays converts CO2e to days of average US home
	// electricity use.
	EquivalencyHomeDays
)

// String returns the wire name of the equivalency.
func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyMilesDriven:
		return "miles_driven"
	case EquivalencySmartphonesCharged:
		return "smartphones_charged"
	case EquivalencyTreeSeedlings:
		return "tree_seedlings"
	case EquivalencyHomeDays:
		return "home_days"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", int(e))
	}
}

// MarshalText encodes the equivalency by wire name.
func (e EquivalencyType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// CarbonInput is a carbon amount in kilograms.
type CarbonInput struct {
	// Value is the numeric carbon emission amount.
	Value float64 `json:"value"`

	// Unit is kg or kgCO2e. Empty means kg.
	Unit string `json:"unit"`
}

// EquivalencyResult is a single calculated equivalency.
type EquivalencyResult struct {
	Type EquivalencyType `json:"type"`

	// Value is the unrounded equivalency.
	Value float64 `json:"value"`

	// FormattedValue is the display-ready string with separators or scaling.
	FormattedValue string `json:"formatted_value"`

	// Label is the descriptive phrase, e.g. "miles driven".
	Label string `json:"label"`
}

// EquivalencyOutput holds every equivalency for one carbon amount.
type EquivalencyOutput struct {
	// InputKg is the input in kilograms CO2e.
	InputKg float64 `json:"input_kg"`

	// Results are in EquivalencyType order.
	Results []EquivalencyResult `json:"results"`

	// DisplayText is the prose form for terminal output.
	// Example: "Equivalent to driving ~11,823 miles or charging ~276,156 smartphones"
	DisplayText string `json:"display_text"`

	// CompactText is the abbreviated form for narrow output.
	// Example: "(≈ 11,823 mi, 276,156 phones)"
	CompactText string `json:"compact_text"`

	// IsEmpty is set when the input was below the display threshold.
	IsEmpty bool `json:"is_empty"`
}

// Result returns the equivalency of type t, if it was calculated.
func (o EquivalencyOutput) Result(t EquivalencyType) (EquivalencyResult, bool) {
	for _, r := range o.Results {
		if r.Type == t {
			return r, true
		}
	}
	return EquivalencyResult{}, false
}
