package footprint

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/rshade/footprint/internal/refdata"
)

// PercentMode selects how a category's percentage is expressed.
type PercentMode int

const (
	// PercentDeviation is the signed deviation from the baseline:
	// round((emission - baseline) / baseline * 100).
	PercentDeviation PercentMode = iota
	// PercentOfBaseline is the emission as a share of the baseline:
	// round(emission / baseline * 100).
	PercentOfBaseline
)

// String returns the name used on the command line.
func (m PercentMode) String() string {
	switch m {
	case PercentDeviation:
		return "deviation"
	case PercentOfBaseline:
		return "of-baseline"
	default:
		return fmt.Sprintf("PercentMode(%d)", int(m))
	}
}

// ParsePercentMode resolves a mode name as printed by String.
func ParsePercentMode(name string) (PercentMode, error) {
	for _, m := range []PercentMode{PercentDeviation, PercentOfBaseline} {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown percent mode %q", name)
}

// Percent computes the rounded percentage of emission against baseline. A
// zero baseline yields 100 for a zero emission, since both match exactly,
// and ErrZeroBaseline otherwise.
func (m PercentMode) Percent(emission, baseline float64) (float64, error) {
	if baseline == 0 {
		if emission == 0 {
			return 100, nil
		}
		return 0, fmt.Errorf("%w: emission %g", ErrZeroBaseline, emission)
	}

	switch m {
	case PercentOfBaseline:
		return math.Round(emission * 100 / baseline), nil
	default:
		return math.Round((emission - baseline) * 100 / baseline), nil
	}
}

// Comparison is one category's emission measured against its baseline.
type Comparison struct {
	Category   refdata.Category
	Emission   float64
	Baseline   float64
	Difference float64
	Percentage float64
}

// Compare measures every category in declaration order against its
// baseline. It fails only when a baseline is zero and the emission is not.
func Compare(t Totals, store *refdata.Store, mode PercentMode) ([]Comparison, error) {
	out := make([]Comparison, 0, refdata.NumCategories)
	for _, cat := range refdata.Categories() {
		ci, ok := store.Category(cat)
		if !ok {
			return nil, &CalculationError{
				Op:  "compare",
				Err: fmt.Errorf("%w: %s", refdata.ErrMissingBaseline, cat),
			}
		}

		emission := t.Emission(cat)
		pct, err := mode.Percent(emission, ci.Baseline)
		if err != nil {
			return nil, &CalculationError{Op: "compare", Err: fmt.Errorf("%s: %w", cat, err)}
		}
		out = append(out, Comparison{
			Category:   cat,
			Emission:   emission,
			Baseline:   ci.Baseline,
			Difference: emission - ci.Baseline,
			Percentage: pct,
		})
	}
	return out, nil
}

// Rank returns a copy of cs ordered by absolute difference, largest first.
// Ties keep their input order.
func Rank(cs []Comparison) []Comparison {
	out := slices.Clone(cs)
	slices.SortStableFunc(out, func(a, b Comparison) int {
		return cmp.Compare(math.Abs(b.Difference), math.Abs(a.Difference))
	})
	return out
}
