package footprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/footprint/internal/refdata"
)

func TestPercentMode_Percent(t *testing.T) {
	tests := []struct {
		name     string
		mode     PercentMode
		emission float64
		baseline float64
		want     float64
		wantErr  error
	}{
		{name: "deviation below", mode: PercentDeviation, emission: 912.5, baseline: 2500, want: -64},
		{name: "deviation above", mode: PercentDeviation, emission: 3000, baseline: 2000, want: 50},
		{name: "deviation equal", mode: PercentDeviation, emission: 1500, baseline: 1500, want: 0},
		{name: "share of baseline", mode: PercentOfBaseline, emission: 912.5, baseline: 2500, want: 37},
		{name: "share above baseline", mode: PercentOfBaseline, emission: 3000, baseline: 2000, want: 150},
		{name: "zero over zero", mode: PercentDeviation, emission: 0, baseline: 0, want: 100},
		{name: "zero over zero share", mode: PercentOfBaseline, emission: 0, baseline: 0, want: 100},
		{name: "non-zero over zero", mode: PercentOfBaseline, emission: 5, baseline: 0, wantErr: ErrZeroBaseline},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.mode.Percent(tt.emission, tt.baseline)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParsePercentMode(t *testing.T) {
	for _, m := range []PercentMode{PercentDeviation, PercentOfBaseline} {
		got, err := ParsePercentMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParsePercentMode("ratio")
	require.Error(t, err)
}

func TestRank(t *testing.T) {
	in := []Comparison{
		{Category: refdata.CategoryHome, Difference: 100},
		{Category: refdata.CategoryMobility, Difference: -300},
		{Category: refdata.CategoryFood, Difference: -100},
		{Category: refdata.CategoryConsumption, Difference: 300},
	}

	got := Rank(in)

	var order []refdata.Category
	for _, c := range got {
		order = append(order, c.Category)
	}
	assert.Equal(t, []refdata.Category{
		refdata.CategoryMobility,
		refdata.CategoryConsumption,
		refdata.CategoryHome,
		refdata.CategoryFood,
	}, order, "ties keep input order")
	assert.Equal(t, refdata.CategoryHome, in[0].Category, "input is not reordered")
}

func TestAggregate(t *testing.T) {
	store, err := refdata.LoadDefault()
	require.NoError(t, err)

	t.Run("offsets only when nothing accepted", func(t *testing.T) {
		got := Aggregate(nil, store)
		assert.Zero(t, got.Accepted)
		assert.False(t, got.Clamped)
		assert.InDelta(t, 250.0, got.Total, 1e-9)
	})

	t.Run("sums per category", func(t *testing.T) {
		got := Aggregate([]Contribution{
			{Category: refdata.CategoryFood, Emission: 300},
			{Category: refdata.CategoryFood, Emission: 400},
			{Category: refdata.CategoryHome, Emission: 200},
		}, store)
		assert.Equal(t, 3, got.Accepted)
		assert.InDelta(t, 700.0, got.Answered[refdata.CategoryFood], 1e-9)
		assert.InDelta(t, 762.5, got.Emission(refdata.CategoryFood), 1e-9)
		assert.InDelta(t, 1150.0, got.Total, 1e-9)
		assert.InDelta(t, got.Total, got.Unclamped, 1e-9)
		assert.Zero(t, got.Emission(refdata.Category(9)))
	})
}
