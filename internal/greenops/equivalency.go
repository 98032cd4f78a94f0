package greenops

import (
	"fmt"
	"math"
)

// Calculate computes every equivalency for a kilogram amount.
//
// Inputs below MinEquivalencyThresholdKg return an empty output with no
// error. Negative values, unknown units and non-finite values are errors.
func Calculate(input CarbonInput) (EquivalencyOutput, error) {
	kg, err := checkKg(input.Value, input.Unit)
	if err != nil {
		return EquivalencyOutput{IsEmpty: true}, err
	}
	if kg < MinEquivalencyThresholdKg {
		return EquivalencyOutput{InputKg: kg, IsEmpty: true}, nil
	}

	results := make([]EquivalencyResult, 0, len(equivalencies))
	for _, eq := range equivalencies {
		v := kg / eq.factor
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
		}
		results = append(results, EquivalencyResult{
			Type:           eq.kind,
			Value:          v,
			FormattedValue: formatEquivalencyValue(v),
			Label:          eq.label,
		})
	}

	miles, phones := results[0].FormattedValue, results[1].FormattedValue
	return EquivalencyOutput{
		InputKg:     kg,
		Results:     results,
		DisplayText: fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones", miles, phones),
		CompactText: fmt.Sprintf("(≈ %s mi, %s phones)", miles, phones),
	}, nil
}

// ForKg is Calculate for a kilogram amount. Invalid amounts yield an empty
// output.
func ForKg(kg float64) EquivalencyOutput {
	out, err := Calculate(CarbonInput{Value: kg, Unit: "kg"})
	if err != nil {
		return EquivalencyOutput{IsEmpty: true}
	}
	return out
}

// Lines renders each equivalency as "~11,823 miles driven".
func (o EquivalencyOutput) Lines() []string {
	lines := make([]string, 0, len(o.Results))
	for _, r := range o.Results {
		lines = append(lines, fmt.Sprintf("~%s %s", r.FormattedValue, r.Label))
	}
	return lines
}

func formatEquivalencyValue(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
