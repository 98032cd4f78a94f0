package footprint

import (
	"math"

	"github.com/rshade/footprint/internal/refdata"
)

// Summary is the compact form of a calculation: per-category answered
// emissions, the calibrated total and how it compares with the population
// the coefficients were fitted to.
type Summary struct {
	// Emissions holds the answered emission per category, before offsets.
	Emissions map[refdata.Category]float64 `json:"emissions"`

	// Total is the calibrated annual total, rounded to two decimals.
	Total float64 `json:"total"`

	DatasetMean        float64    `json:"dataset_mean"`
	DatasetStd         float64    `json:"dataset_std"`
	DatasetRange       [2]float64 `json:"dataset_range"`
	DifferenceFromMean float64    `json:"difference_from_mean"`

	// PercentOfMean is the total as a rounded percentage of DatasetMean.
	PercentOfMean float64 `json:"percent_of_mean"`

	// PercentMode names how Percentages are expressed.
	PercentMode string `json:"percent_mode"`

	// Percentages holds each category's emission, offsets included, against
	// its baseline.
	Percentages map[refdata.Category]float64 `json:"percentages"`

	ModelAccuracy refdata.ModelAccuracy `json:"model_accuracy"`
	FeaturesUsed  []Contribution        `json:"features_used"`
	Clamped       bool                  `json:"clamped"`
	Diagnostics   []Diagnostic          `json:"diagnostics"`
}

// Summarize builds a Summary from aggregated totals. Category percentages
// follow mode; the total is always reported as a share of the dataset mean.
func Summarize(
	t Totals,
	store *refdata.Store,
	mode PercentMode,
	contribs []Contribution,
	diags []Diagnostic,
) (*Summary, error) {
	comparisons, err := Compare(t, store, mode)
	if err != nil {
		return nil, err
	}

	cal := store.Calibration()
	total := roundTo(t.Total, 2)

	pct, err := PercentOfBaseline.Percent(total, cal.DatasetMean)
	if err != nil {
		return nil, &CalculationError{Op: "summarize", Err: err}
	}

	s := &Summary{
		Emissions:          make(map[refdata.Category]float64, refdata.NumCategories),
		Total:              total,
		DatasetMean:        cal.DatasetMean,
		DatasetStd:         cal.DatasetStd,
		DatasetRange:       [2]float64{cal.LowerBound, cal.UpperBound},
		DifferenceFromMean: roundTo(total-cal.DatasetMean, 2),
		PercentOfMean:      pct,
		PercentMode:        mode.String(),
		Percentages:        make(map[refdata.Category]float64, refdata.NumCategories),
		ModelAccuracy:      cal.Model,
		FeaturesUsed:       nonNil(contribs),
		Clamped:            t.Clamped,
		Diagnostics:        nonNil(diags),
	}
	for _, c := range refdata.Categories() {
		s.Emissions[c] = roundTo(t.Answered[c], 2)
	}
	for _, c := range comparisons {
		s.Percentages[c.Category] = c.Percentage
	}
	return s, nil
}

func roundTo(v float64, decimals int) float64 {
	const base = 10
	m := math.Pow(base, float64(decimals))
	return math.Round(v*m) / m
}
