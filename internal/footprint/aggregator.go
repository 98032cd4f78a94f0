package footprint

import (
	"github.com/rshade/footprint/internal/refdata"
)

// Totals is the per-category and overall emission of a set of
// contributions. Arrays are indexed by refdata.Category.
type Totals struct {
	// Answered is the sum of accepted contributions per category, before
	// offsets and clamping.
	Answered [refdata.NumCategories]float64

	// Emissions is the final per-category emission including offsets and
	// any clamp scaling.
	Emissions [refdata.NumCategories]float64

	// Total is the sum of Emissions.
	Total float64

	// Unclamped is the total before clamp scaling.
	Unclamped float64

	// Accepted is the number of contributions summed.
	Accepted int

	// Clamped is set when the total was pulled back into the calibration
	// bounds.
	Clamped bool
}

// Emission returns the final emission of category c.
func (t Totals) Emission(c refdata.Category) float64 {
	if !c.Valid() {
		return 0
	}
	return t.Emissions[c]
}

// Aggregate sums contributions per category, adds each category's offset
// and, when at least one answer was accepted, scales every category
// proportionally so the total falls inside the calibration bounds.
//
// With no accepted answers the result is the offsets alone and no clamping
// is applied.
func Aggregate(contribs []Contribution, store *refdata.Store) Totals {
	var t Totals
	for _, c := range contribs {
		if !c.Category.Valid() {
			continue
		}
		t.Answered[c.Category] += c.Emission
		t.Accepted++
	}

	for _, cat := range refdata.Categories() {
		ci, _ := store.Category(cat)
		t.Emissions[cat] = t.Answered[cat] + ci.Offset
		t.Total += t.Emissions[cat]
	}
	t.Unclamped = t.Total

	if t.Accepted == 0 {
		return t
	}

	cal := store.Calibration()
	switch {
	case t.Total > cal.UpperBound:
		t.rescale(cal.UpperBound)
	case t.Total < cal.LowerBound:
		t.rescale(cal.LowerBound)
	}
	return t
}

// rescale moves the total to target, keeping category proportions. A zero
// total is spread evenly.
func (t *Totals) rescale(target float64) {
	t.Clamped = true
	if t.Total == 0 {
		share := target / refdata.NumCategories
		for i := range t.Emissions {
			t.Emissions[i] = share
		}
	} else {
		factor := target / t.Total
		for i := range t.Emissions {
			t.Emissions[i] *= factor
		}
	}

	t.Total = 0
	for _, e := range t.Emissions {
		t.Total += e
	}
}
