package footprint

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/footprint/internal/refdata"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	store, err := refdata.LoadDefault()
	require.NoError(t, err)
	e, err := NewEngine(store, opts...)
	require.NoError(t, err)
	return e
}

func choice(category, topic, option string) RawAnswer {
	return RawAnswer{Category: category, Type: "choice", Topic: topic, SelectedOption: &option}
}

func slider(category, topic string, v float64) RawAnswer {
	return RawAnswer{Category: category, Type: "slider", Topic: topic, SliderValue: NewNumber(v)}
}

func TestCalculate_SingleMobilityAnswer(t *testing.T) {
	e := newTestEngine(t)

	rs, err := e.Calculate([]RawAnswer{choice("Mobility", "transport_mode", "Private vehicle")})
	require.NoError(t, err)

	assert.False(t, rs.Clamped)
	assert.Empty(t, rs.Diagnostics)
	require.Len(t, rs.Contributions, 1)
	assert.InDelta(t, 850.0, rs.Contributions[0].Emission, 1e-9)

	mob, ok := rs.Result(refdata.CategoryMobility)
	require.True(t, ok)
	assert.InDelta(t, 912.5, mob.Emissions, 1e-9)
	assert.InDelta(t, 2500.0, mob.Average, 1e-9)
	assert.InDelta(t, -1587.5, mob.Difference, 1e-9)
	assert.InDelta(t, -64.0, mob.Percentage, 1e-9)
	assert.Len(t, mob.Tips, MaxTips)
	assert.Len(t, mob.Products, 3)

	for _, c := range []refdata.Category{refdata.CategoryHome, refdata.CategoryFood, refdata.CategoryConsumption} {
		r, found := rs.Result(c)
		require.True(t, found)
		assert.InDelta(t, 62.5, r.Emissions, 1e-9, "%s carries only its offset", c)
	}

	assert.InDelta(t, 1100.0, rs.TotalEmissions, 1e-9)
	assert.InDelta(t, 8000.0, rs.TotalAverage, 1e-9)
	assert.InDelta(t, -6900.0, rs.TotalDifference, 1e-9)
	assert.False(t, rs.Equivalencies.IsEmpty)
}

func TestCalculate_Ranking(t *testing.T) {
	e := newTestEngine(t)

	rs, err := e.Calculate([]RawAnswer{choice("Mobility", "transport_mode", "Private vehicle")})
	require.NoError(t, err)

	// Home and Food tie at 1937.5 and keep declaration order.
	var order []refdata.Category
	for _, r := range rs.Results {
		order = append(order, r.Category)
	}
	assert.Equal(t, []refdata.Category{
		refdata.CategoryHome,
		refdata.CategoryFood,
		refdata.CategoryMobility,
		refdata.CategoryConsumption,
	}, order)
}

func TestCalculate_UnknownOption(t *testing.T) {
	e := newTestEngine(t)

	rs, err := e.Calculate([]RawAnswer{choice("Mobility", "transport_mode", "Hovercraft")})
	require.NoError(t, err)

	require.Len(t, rs.Contributions, 1)
	c := rs.Contributions[0]
	assert.True(t, c.Approximate)
	assert.InDelta(t, 400.0, c.Emission, 1e-9)
	assert.Equal(t, "Hovercraft", c.Input)

	require.Len(t, rs.Diagnostics, 1)
	assert.Equal(t, DiagUnknownOption, rs.Diagnostics[0].Code)
	assert.Equal(t, "transport_mode", rs.Diagnostics[0].Topic)
	assert.Zero(t, rs.Skipped())

	mob, _ := rs.Result(refdata.CategoryMobility)
	assert.InDelta(t, 462.5, mob.Emissions, 1e-9)
}

func TestCalculate_EmptyInput(t *testing.T) {
	e := newTestEngine(t)

	for name, raws := range map[string][]RawAnswer{"nil": nil, "empty": {}} {
		t.Run(name, func(t *testing.T) {
			rs, err := e.Calculate(raws)
			require.NoError(t, err)

			assert.False(t, rs.Clamped)
			assert.InDelta(t, 250.0, rs.TotalEmissions, 1e-9)
			require.Len(t, rs.Results, refdata.NumCategories)
			for _, r := range rs.Results {
				assert.InDelta(t, 62.5, r.Emissions, 1e-9)
				assert.Equal(t, r.Emissions-r.Average, r.Difference)
			}
			assert.NotNil(t, rs.Contributions)
			assert.NotNil(t, rs.Diagnostics)
		})
	}
}

func maxedAnswers() []RawAnswer {
	return []RawAnswer{
		choice("Home", "heating", "Coal"),
		slider("Home", "tv_pc_hours", 24),
		slider("Home", "internet_hours", 24),
		choice("Mobility", "transport_mode", "Private vehicle"),
		slider("Mobility", "vehicle_distance", 10000),
		choice("Mobility", "air_travel", "Very frequently"),
		choice("Food", "diet", "Omnivore"),
		slider("Food", "grocery_bill", 1000),
		slider("Food", "waste_bags_weekly", 20),
		slider("Consumption", "clothes_monthly", 50),
		choice("Consumption", "waste_bag_size", "Extra large"),
		choice("Consumption", "shower", "Twice a day"),
	}
}

func TestCalculate_ClampUpper(t *testing.T) {
	e := newTestEngine(t)

	rs, err := e.Calculate(maxedAnswers())
	require.NoError(t, err)

	assert.True(t, rs.Clamped)
	assert.InDelta(t, 8377.0, rs.TotalEmissions, 1e-6)

	var sum float64
	for _, r := range rs.Results {
		sum += r.Emissions
	}
	assert.InDelta(t, rs.TotalEmissions, sum, 1e-6)

	// Unclamped: Home 1512.5, Mobility 4512.5, Food 5812.5, Consumption 1662.5.
	food, _ := rs.Result(refdata.CategoryFood)
	mob, _ := rs.Result(refdata.CategoryMobility)
	assert.InDelta(t, 5812.5/4512.5, food.Emissions/mob.Emissions, 1e-9, "proportions are kept")
	assert.InDelta(t, 5812.5*8377/13500, food.Emissions, 1e-6)
}

func TestCalculate_ClampLower(t *testing.T) {
	e := newTestEngine(t)

	rs, err := e.Calculate([]RawAnswer{choice("Mobility", "transport_mode", "Walk/Bicycle")})
	require.NoError(t, err)

	assert.True(t, rs.Clamped)
	assert.InDelta(t, 306.0, rs.TotalEmissions, 1e-9)
	mob, _ := rs.Result(refdata.CategoryMobility)
	assert.InDelta(t, 112.5*306/300, mob.Emissions, 1e-9)
}

func TestCalculate_Idempotent(t *testing.T) {
	e := newTestEngine(t)
	answers := maxedAnswers()[:7]

	first, err := e.Calculate(answers)
	require.NoError(t, err)
	second, err := e.Calculate(answers)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCalculate_TotalsAreConsistent(t *testing.T) {
	e := newTestEngine(t)

	for n := 0; n <= len(maxedAnswers()); n++ {
		rs, err := e.Calculate(maxedAnswers()[:n])
		require.NoError(t, err)

		var sum float64
		for _, r := range rs.Results {
			sum += r.Emissions
			assert.InDelta(t, r.Emissions-r.Average, r.Difference, 1e-9)
		}
		assert.InDelta(t, rs.TotalEmissions, sum, 1e-6, "prefix %d", n)
		for i := 1; i < len(rs.Results); i++ {
			prev, cur := rs.Results[i-1], rs.Results[i]
			assert.GreaterOrEqual(t, abs(prev.Difference), abs(cur.Difference))
		}
	}
}

func TestCalculate_Diagnostics(t *testing.T) {
	e := newTestEngine(t)
	bad := "Hovercraft"

	tests := []struct {
		name     string
		raw      RawAnswer
		wantCode DiagnosticCode
		accepted bool
	}{
		{
			name:     "unknown category",
			raw:      choice("Leisure", "transport_mode", "Private vehicle"),
			wantCode: DiagUnknownCategory,
		},
		{
			name:     "unknown topic",
			raw:      choice("Mobility", "teleport", "Private vehicle"),
			wantCode: DiagUnknownTopic,
		},
		{
			name:     "category mismatch",
			raw:      choice("Food", "transport_mode", "Private vehicle"),
			wantCode: DiagCategoryMismatch,
		},
		{
			name:     "kind mismatch",
			raw:      slider("Mobility", "transport_mode", 3),
			wantCode: DiagKindMismatch,
		},
		{
			name:     "missing option",
			raw:      RawAnswer{Category: "Mobility", Type: "choice", Topic: "transport_mode"},
			wantCode: DiagMalformedAnswer,
		},
		{
			name:     "missing category",
			raw:      RawAnswer{Type: "choice", Topic: "diet", SelectedOption: &bad},
			wantCode: DiagMalformedAnswer,
		},
		{
			name:     "slider above range",
			raw:      slider("Mobility", "vehicle_distance", 20000),
			wantCode: DiagSliderClamped,
			accepted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := e.Calculate([]RawAnswer{tt.raw})
			require.NoError(t, err)

			require.Len(t, rs.Diagnostics, 1)
			assert.Equal(t, tt.wantCode, rs.Diagnostics[0].Code)
			assert.Equal(t, 0, rs.Diagnostics[0].Index)
			assert.NotEmpty(t, rs.Diagnostics[0].Message)
			if tt.accepted {
				assert.Len(t, rs.Contributions, 1)
				assert.Zero(t, rs.Skipped())
				return
			}
			assert.Empty(t, rs.Contributions)
			assert.Equal(t, 1, rs.Skipped())
			assert.InDelta(t, 250.0, rs.TotalEmissions, 1e-9)
		})
	}
}

func TestCalculate_SkipsBadAnswersOnly(t *testing.T) {
	e := newTestEngine(t)

	rs, err := e.Calculate([]RawAnswer{
		choice("Leisure", "x", "y"),
		choice("Mobility", "transport_mode", "Private vehicle"),
		slider("Home", "tv_pc_hours", -5),
	})
	require.NoError(t, err)

	require.Len(t, rs.Contributions, 2)
	assert.Equal(t, 1, rs.Contributions[0].Index)
	assert.InDelta(t, 0.0, rs.Contributions[1].Emission, 1e-9, "negative slider clamps to zero")
	require.Len(t, rs.Diagnostics, 2)
	assert.Equal(t, DiagUnknownCategory, rs.Diagnostics[0].Code)
	assert.Equal(t, DiagSliderClamped, rs.Diagnostics[1].Code)
	assert.Equal(t, 2, rs.Diagnostics[1].Index)
}

func TestCalculate_ResolvesByQuestionID(t *testing.T) {
	e := newTestEngine(t)
	opt := "Vegan"

	rs, err := e.Calculate([]RawAnswer{{Category: "food", QuestionID: 7, SelectedOption: &opt}})
	require.NoError(t, err)
	require.Len(t, rs.Contributions, 1)
	assert.Equal(t, "diet", rs.Contributions[0].Topic)
	assert.InDelta(t, 300.0, rs.Contributions[0].Emission, 1e-9)
}

func TestCalculate_PercentOfBaselineMode(t *testing.T) {
	e := newTestEngine(t, WithPercentMode(PercentOfBaseline))
	assert.Equal(t, PercentOfBaseline, e.Mode())

	rs, err := e.Calculate([]RawAnswer{choice("Mobility", "transport_mode", "Private vehicle")})
	require.NoError(t, err)
	mob, _ := rs.Result(refdata.CategoryMobility)
	assert.InDelta(t, 37.0, mob.Percentage, 1e-9) // round(912.5 / 2500 * 100)
}

const zeroBaselineReference = `
version: "1.0.0"
calibration: {lower_bound: 0, upper_bound: 10000, dataset_mean: 100}
categories:
  - {name: Home, baseline: 0, default_weight: 1, offset: 0}
  - {name: Mobility, baseline: 100, default_weight: 1, offset: 0}
  - {name: Food, baseline: 100, default_weight: 1, offset: 0}
  - {name: Consumption, baseline: 100, default_weight: 1, offset: 0}
questions:
  - {id: 1, topic: heating, category: Home, kind: choice, options: [{label: Gas, co2: 10}]}
`

func TestCalculate_ZeroBaseline(t *testing.T) {
	store, err := refdata.Parse([]byte(zeroBaselineReference))
	require.NoError(t, err)
	e, err := NewEngine(store)
	require.NoError(t, err)

	t.Run("zero emission matches zero baseline", func(t *testing.T) {
		rs, calcErr := e.Calculate(nil)
		require.NoError(t, calcErr)
		home, _ := rs.Result(refdata.CategoryHome)
		assert.InDelta(t, 100.0, home.Percentage, 1e-9)
	})

	t.Run("non-zero emission fails", func(t *testing.T) {
		_, calcErr := e.Calculate([]RawAnswer{choice("Home", "heating", "Gas")})
		require.Error(t, calcErr)

		var ce *CalculationError
		require.True(t, errors.As(calcErr, &ce))
		assert.Equal(t, "compare", ce.Op)
		assert.ErrorIs(t, calcErr, ErrZeroBaseline)
	})
}

func TestNewEngine(t *testing.T) {
	_, err := NewEngine(nil)
	require.ErrorIs(t, err, ErrNilStore)

	store, err := refdata.Parse([]byte(`version: "1.0.0"`))
	require.NoError(t, err)
	_, err = NewEngine(store)
	var ce *CalculationError
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, refdata.ErrMissingBaseline)
}

func TestSummarize(t *testing.T) {
	e := newTestEngine(t)

	s, err := e.Summarize([]RawAnswer{choice("Mobility", "transport_mode", "Private vehicle")})
	require.NoError(t, err)

	assert.InDelta(t, 1100.0, s.Total, 1e-9)
	assert.InDelta(t, 850.0, s.Emissions[refdata.CategoryMobility], 1e-9)
	assert.InDelta(t, 0.0, s.Emissions[refdata.CategoryHome], 1e-9)
	assert.InDelta(t, 48.0, s.PercentOfMean, 1e-9) // round(1100 / 2269.15 * 100)
	assert.InDelta(t, -1169.15, s.DifferenceFromMean, 1e-9)
	assert.Equal(t, [2]float64{306, 8377}, s.DatasetRange)
	assert.InDelta(t, 0.9907, s.ModelAccuracy.R2, 1e-9)
	assert.Len(t, s.FeaturesUsed, 1)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"Mobility":850`)
	assert.Contains(t, string(b), `"r2_score":0.9907`)
}

func TestSummarize_FollowsPercentMode(t *testing.T) {
	raws := []RawAnswer{choice("Mobility", "transport_mode", "Private vehicle")}

	deviation, err := newTestEngine(t).Summarize(raws)
	require.NoError(t, err)
	share, err := newTestEngine(t, WithPercentMode(PercentOfBaseline)).Summarize(raws)
	require.NoError(t, err)

	assert.Equal(t, "deviation", deviation.PercentMode)
	assert.Equal(t, "of-baseline", share.PercentMode)
	assert.InDelta(t, -64.0, deviation.Percentages[refdata.CategoryMobility], 1e-9) // round((912.5 - 2500) / 2500 * 100)
	assert.InDelta(t, 37.0, share.Percentages[refdata.CategoryMobility], 1e-9)      // round(912.5 / 2500 * 100)
	assert.InDelta(t, -97.0, deviation.Percentages[refdata.CategoryHome], 1e-9)     // round((62.5 - 2000) / 2000 * 100)
	assert.InDelta(t, 3.0, share.Percentages[refdata.CategoryHome], 1e-9)

	assert.Equal(t, deviation.PercentOfMean, share.PercentOfMean, "total share does not depend on the mode")

	a, err := json.Marshal(deviation)
	require.NoError(t, err)
	b, err := json.Marshal(share)
	require.NoError(t, err)
	assert.NotEqual(t, string(a), string(b))
}

func TestSummarize_ZeroBaseline(t *testing.T) {
	store, err := refdata.Parse([]byte(zeroBaselineReference))
	require.NoError(t, err)
	e, err := NewEngine(store, WithPercentMode(PercentOfBaseline))
	require.NoError(t, err)

	_, err = e.Summarize([]RawAnswer{choice("Home", "heating", "Gas")})
	require.ErrorIs(t, err, ErrZeroBaseline)
}

func TestResultSet_JSON(t *testing.T) {
	e := newTestEngine(t)

	rs, err := e.Calculate([]RawAnswer{choice("Mobility", "transport_mode", "Private vehicle")})
	require.NoError(t, err)

	b, err := json.Marshal(rs)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	for _, key := range []string{
		"results", "total_emissions", "total_average", "total_difference",
		"clamped", "contributions", "diagnostics", "equivalencies",
	} {
		assert.Contains(t, decoded, key)
	}
	results, ok := decoded["results"].([]any)
	require.True(t, ok)
	first, ok := results[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Home", first["category"])
	for _, key := range []string{"emissions", "average", "difference", "percentage", "tips", "products"} {
		assert.Contains(t, first, key)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
