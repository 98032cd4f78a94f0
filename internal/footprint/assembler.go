package footprint

import (
	"github.com/rshade/footprint/internal/greenops"
	"github.com/rshade/footprint/internal/refdata"
)

// MaxTips is the number of tips attached to each category result.
const MaxTips = 3

// CategoryEmission is the user-facing result for one category.
type CategoryEmission struct {
	Category   refdata.Category  `json:"category"`
	Emissions  float64           `json:"emissions"`
	Average    float64           `json:"average"`
	Difference float64           `json:"difference"`
	Percentage float64           `json:"percentage"`
	Tips       []string          `json:"tips"`
	Products   []refdata.Product `json:"products"`
}

// ResultSet is the complete outcome of a calculation. Results are ordered
// by absolute difference from the baseline, largest first.
type ResultSet struct {
	Results         []CategoryEmission `json:"results"`
	TotalEmissions  float64            `json:"total_emissions"`
	TotalAverage    float64            `json:"total_average"`
	TotalDifference float64            `json:"total_difference"`

	// Clamped is set when the total was scaled into the calibration bounds.
	Clamped bool `json:"clamped"`

	Contributions []Contribution             `json:"contributions"`
	Diagnostics   []Diagnostic               `json:"diagnostics"`
	Equivalencies greenops.EquivalencyOutput `json:"equivalencies"`
}

// Result returns the entry for category c.
func (rs *ResultSet) Result(c refdata.Category) (CategoryEmission, bool) {
	for _, r := range rs.Results {
		if r.Category == c {
			return r, true
		}
	}
	return CategoryEmission{}, false
}

// Skipped returns the number of answers that contributed nothing.
func (rs *ResultSet) Skipped() int {
	seen := make(map[int]bool)
	for _, d := range rs.Diagnostics {
		if d.Code.Skips() {
			seen[d.Index] = true
		}
	}
	return len(seen)
}

// Assemble builds the ResultSet from ranked comparisons. Each category gets
// at most MaxTips tips and all of its products, copied from the store.
func Assemble(
	ranked []Comparison,
	t Totals,
	store *refdata.Store,
	contribs []Contribution,
	diags []Diagnostic,
) *ResultSet {
	rs := &ResultSet{
		Results:       make([]CategoryEmission, 0, len(ranked)),
		Clamped:       t.Clamped,
		Contributions: nonNil(contribs),
		Diagnostics:   nonNil(diags),
	}

	for _, c := range ranked {
		ci, _ := store.Category(c.Category)
		tips := ci.Tips
		if len(tips) > MaxTips {
			tips = tips[:MaxTips]
		}
		rs.Results = append(rs.Results, CategoryEmission{
			Category:   c.Category,
			Emissions:  c.Emission,
			Average:    c.Baseline,
			Difference: c.Difference,
			Percentage: c.Percentage,
			Tips:       nonNil(tips),
			Products:   nonNil(ci.Products),
		})
		rs.TotalAverage += c.Baseline
	}

	rs.TotalEmissions = t.Total
	rs.TotalDifference = rs.TotalEmissions - rs.TotalAverage
	rs.Equivalencies = greenops.ForKg(t.Total)
	return rs
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
