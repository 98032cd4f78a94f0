package refdata

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalReference is a small valid dataset used to exercise Parse/Validate.
const minimalReference = `
version: "1.2.0"
calibration:
  lower_bound: 100
  upper_bound: 1000
  dataset_mean: 400
categories:
  - {name: Home, baseline: 100, default_weight: 10, offset: 1}
  - {name: Mobility, baseline: 100, default_weight: 10, offset: 1}
  - {name: Food, baseline: 100, default_weight: 10, offset: 1}
  - {name: Consumption, baseline: 100, default_weight: 10, offset: 1}
questions:
  - id: 1
    topic: Transport Mode
    category: mobility
    kind: multiple_choice
    options:
      - {label: "Car", co2: 500}
  - id: 2
    topic: km
    category: Mobility
    kind: slider
    slider: {min: 0, max: 100, unit: km, coefficient: 2}
`

func TestLoadDefault(t *testing.T) {
	store, err := LoadDefault()
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", store.Version())
	assert.Len(t, store.Questions(), 12)

	cal := store.Calibration()
	assert.InDelta(t, 306.0, cal.LowerBound, 1e-9)
	assert.InDelta(t, 8377.0, cal.UpperBound, 1e-9)
	assert.InDelta(t, 2269.15, cal.DatasetMean, 1e-9)

	for _, c := range Categories() {
		ci, ok := store.Category(c)
		require.True(t, ok, "category %s missing", c)
		assert.Positive(t, ci.Baseline)
		assert.Positive(t, ci.DefaultWeight)
		assert.GreaterOrEqual(t, len(ci.Tips), 3)
		assert.NotEmpty(t, ci.Products)
		assert.Len(t, store.QuestionsIn(c), 3)
	}

	q, ok := store.QuestionByTopic("transport mode")
	require.True(t, ok)
	assert.Equal(t, CategoryMobility, q.Category)
	assert.Equal(t, KindChoice, q.Kind)
	opt, ok := q.Option("Private vehicle")
	require.True(t, ok)
	assert.InDelta(t, 850.0, opt.CO2, 1e-9)
}

func TestParse(t *testing.T) {
	t.Run("normalizes topics and aliases", func(t *testing.T) {
		store, err := Parse([]byte(minimalReference))
		require.NoError(t, err)
		require.NoError(t, store.Validate())

		q, ok := store.QuestionByTopic("transport_mode")
		require.True(t, ok)
		assert.Equal(t, "transport_mode", q.Topic)
		assert.Equal(t, CategoryMobility, q.Category)
		assert.Equal(t, KindChoice, q.Kind)

		byID, ok := store.QuestionByID(2)
		require.True(t, ok)
		require.NotNil(t, byID.Slider)
		assert.InDelta(t, 2.0, byID.Slider.Coefficient, 1e-9)
	})

	t.Run("rejects incompatible major version", func(t *testing.T) {
		_, err := Parse([]byte(`version: "2.0.0"`))
		require.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("rejects malformed version", func(t *testing.T) {
		_, err := Parse([]byte(`version: "latest"`))
		require.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		_, err := Parse([]byte("version: \"1.0.0\"\ncategories:\n  - {name: Leisure, baseline: 1}\n"))
		require.ErrorIs(t, err, ErrUnknownCategory)
	})

	t.Run("rejects duplicate topics", func(t *testing.T) {
		doc := `version: "1.0.0"
questions:
  - {id: 1, topic: a, category: Home, kind: choice, options: [{label: x, co2: 1}]}
  - {id: 2, topic: A, category: Home, kind: choice, options: [{label: x, co2: 1}]}
`
		_, err := Parse([]byte(doc))
		require.ErrorIs(t, err, ErrDuplicateQuestion)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name: "missing category baseline",
			doc: `version: "1.0.0"
calibration: {lower_bound: 0, upper_bound: 10, dataset_mean: 100}
categories:
  - {name: Home, baseline: 100, default_weight: 10}
`,
			wantErr: ErrMissingBaseline,
		},
		{
			name: "inverted bounds",
			doc: `version: "1.0.0"
calibration: {lower_bound: 50, upper_bound: 10, dataset_mean: 100}
categories:
  - {name: Home, baseline: 1, default_weight: 1}
  - {name: Mobility, baseline: 1, default_weight: 1}
  - {name: Food, baseline: 1, default_weight: 1}
  - {name: Consumption, baseline: 1, default_weight: 1}
`,
			wantErr: ErrInvalidBounds,
		},
		{
			name: "zero default weight",
			doc: `version: "1.0.0"
calibration: {lower_bound: 0, upper_bound: 10, dataset_mean: 100}
categories:
  - {name: Home, baseline: 1, default_weight: 0}
  - {name: Mobility, baseline: 1, default_weight: 1}
  - {name: Food, baseline: 1, default_weight: 1}
  - {name: Consumption, baseline: 1, default_weight: 1}
`,
			wantErr: ErrInvalidDefaultWeight,
		},
		{
			name: "slider without range",
			doc: `version: "1.0.0"
calibration: {lower_bound: 0, upper_bound: 10, dataset_mean: 100}
categories:
  - {name: Home, baseline: 1, default_weight: 1}
  - {name: Mobility, baseline: 1, default_weight: 1}
  - {name: Food, baseline: 1, default_weight: 1}
  - {name: Consumption, baseline: 1, default_weight: 1}
questions:
  - {id: 1, topic: hours, category: Home, kind: slider}
`,
			wantErr: ErrInvalidQuestion,
		},
		{
			name: "missing dataset mean",
			doc: `version: "1.0.0"
calibration: {lower_bound: 0, upper_bound: 10}
categories:
  - {name: Home, baseline: 1, default_weight: 1}
  - {name: Mobility, baseline: 1, default_weight: 1}
  - {name: Food, baseline: 1, default_weight: 1}
  - {name: Consumption, baseline: 1, default_weight: 1}
`,
			wantErr: ErrInvalidDatasetMean,
		},
		{
			name: "zero baseline is accepted",
			doc: `version: "1.0.0"
calibration: {lower_bound: 0, upper_bound: 10, dataset_mean: 100}
categories:
  - {name: Home, baseline: 0, default_weight: 1}
  - {name: Mobility, baseline: 1, default_weight: 1}
  - {name: Food, baseline: 1, default_weight: 1}
  - {name: Consumption, baseline: 1, default_weight: 1}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Parse([]byte(tt.doc))
			require.NoError(t, err)

			err = store.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("reads file from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reference.yaml")
		require.NoError(t, os.WriteFile(path, []byte(minimalReference), 0600))

		store, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "1.2.0", store.Version())
		assert.Len(t, store.Questions(), 2)
	})

	t.Run("empty path uses embedded data", func(t *testing.T) {
		store, err := Load("")
		require.NoError(t, err)
		assert.Len(t, store.Questions(), 12)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestStoreReturnsCopies(t *testing.T) {
	store, err := LoadDefault()
	require.NoError(t, err)

	q, ok := store.QuestionByTopic("diet")
	require.True(t, ok)
	q.Options[0].CO2 = 99999

	again, _ := store.QuestionByTopic("diet")
	assert.InDelta(t, 300.0, again.Options[0].CO2, 1e-9)

	ci, _ := store.Category(CategoryFood)
	ci.Tips[0] = "changed"
	fresh, _ := store.Category(CategoryFood)
	assert.NotEqual(t, "changed", fresh.Tips[0])
}

func TestShuffled(t *testing.T) {
	store, err := LoadDefault()
	require.NoError(t, err)

	a := store.Shuffled(rand.New(rand.NewPCG(1, 2)))
	b := store.Shuffled(rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, a, b, "same seed must give the same order")
	assert.ElementsMatch(t, store.Questions(), a)
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{in: "Home", want: CategoryHome},
		{in: "mobility", want: CategoryMobility},
		{in: " FOOD ", want: CategoryFood},
		{in: "Consumption", want: CategoryConsumption},
		{in: "Leisure", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeTopic(t *testing.T) {
	tests := map[string]string{
		"transport mode":   "transport_mode",
		"Transport-Mode":   "transport_mode",
		"  air   travel  ": "air_travel",
		"diet":             "diet",
		"tv_pc_hours":      "tv_pc_hours",
		"":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeTopic(in), "input %q", in)
	}
}

func TestSliderClamp(t *testing.T) {
	s := Slider{Min: 0, Max: 24}
	assert.InDelta(t, 0.0, s.Clamp(-3), 1e-9)
	assert.InDelta(t, 24.0, s.Clamp(30), 1e-9)
	assert.InDelta(t, 8.0, s.Clamp(8), 1e-9)
}
