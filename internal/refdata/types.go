// Package refdata holds the read-only reference tables the footprint engine
// consumes: quiz questions with their CO2 weights or per-unit coefficients,
// category baselines, tips, product suggestions and the calibration
// produced by the offline training pipeline.
//
// A Store is built once at startup and never mutated afterwards, so it can
// be shared between goroutines without locking.
package refdata

import (
	"fmt"
	"strings"
)

// Category is one of the four fixed question groupings. The numeric order
// is the declaration order used to break ranking ties.
type Category int

const (
	// CategoryHome covers heating and household electricity use.
	CategoryHome Category = iota
	// CategoryMobility covers commuting, driving and flights.
	CategoryMobility
	// CategoryFood covers diet, groceries and food waste.
	CategoryFood
	// CategoryConsumption covers clothing, waste and water use.
	CategoryConsumption
)

// NumCategories is the number of declared categories.
const NumCategories = 4

// Categories returns every category in declaration order.
func Categories() []Category {
	return []Category{CategoryHome, CategoryMobility, CategoryFood, CategoryConsumption}
}

// String returns the display name of the category.
func (c Category) String() string {
	switch c {
	case CategoryHome:
		return "Home"
	case CategoryMobility:
		return "Mobility"
	case CategoryFood:
		return "Food"
	case CategoryConsumption:
		return "Consumption"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return c >= CategoryHome && c <= CategoryConsumption
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(name string) (Category, error) {
	trimmed := strings.TrimSpace(name)
	for _, c := range Categories() {
		if strings.EqualFold(trimmed, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// Kind distinguishes discrete-option questions from numeric sliders.
type Kind int

const (
	// KindChoice questions select one labeled option with a fixed weight.
	KindChoice Kind = iota
	// KindSlider questions scale a numeric value by a per-unit coefficient.
	KindSlider
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindChoice:
		return "choice"
	case KindSlider:
		return "slider"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by wire name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind resolves a kind name. "multiple_choice" is accepted as an alias
// of "choice" because older quiz clients send it.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "choice", "multiple_choice":
		return KindChoice, nil
	case "slider":
		return KindSlider, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

// NormalizeTopic canonicalizes a topic identifier: lower case, with runs of
// spaces and hyphens collapsed to single underscores.
func NormalizeTopic(topic string) string {
	fields := strings.FieldsFunc(strings.ToLower(topic), func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '\t'
	})
	return strings.Join(fields, "_")
}

// Option is one selectable answer of a choice question.
type Option struct {
	Label string  `json:"text"`
	CO2   float64 `json:"co2"`
}

// Slider describes the numeric range of a slider question.
type Slider struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Step        float64 `json:"step,omitempty"`
	Unit        string  `json:"unit"`
	Coefficient float64 `json:"coefficient"`
}

// Clamp bounds v to the slider range.
func (s Slider) Clamp(v float64) float64 {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// Question is a single quiz question. Exactly one of Options (KindChoice)
// or Slider (KindSlider) is populated.
type Question struct {
	ID       int      `json:"id"`
	Topic    string   `json:"topic"`
	Category Category `json:"category"`
	Kind     Kind     `json:"type"`
	Text     string   `json:"question"`
	Options  []Option `json:"options,omitempty"`
	Slider   *Slider  `json:"slider,omitempty"`

	// Fallback is the weight used when a choice answer names an unknown
	// option. Zero means the category default applies.
	Fallback float64 `json:"-"`
}

// Option finds an option by label, preferring an exact match and falling
// back to a case-insensitive one.
func (q Question) Option(label string) (Option, bool) {
	for _, o := range q.Options {
		if o.Label == label {
			return o, true
		}
	}
	trimmed := strings.TrimSpace(label)
	for _, o := range q.Options {
		if strings.EqualFold(o.Label, trimmed) {
			return o, true
		}
	}
	return Option{}, false
}

func (q Question) clone() Question {
	out := q
	if q.Options != nil {
		out.Options = append([]Option(nil), q.Options...)
	}
	if q.Slider != nil {
		s := *q.Slider
		out.Slider = &s
	}
	return out
}

// Product is a recommended purchase that lowers a category's footprint.
type Product struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Link        string `json:"link"`
	Image       string `json:"image"`
}

// CategoryInfo carries the per-category reference values.
type CategoryInfo struct {
	Category Category `json:"category"`

	// Baseline is the average annual emission for the category in kg CO2.
	Baseline float64 `json:"baseline"`

	// DefaultWeight replaces an unrecognized option's weight. Never zero.
	DefaultWeight float64 `json:"default_weight"`

	// Offset is this category's share of emissions from factors the quiz
	// does not ask about.
	Offset float64 `json:"offset"`

	Tips     []string  `json:"tips"`
	Products []Product `json:"products"`
}

func (ci CategoryInfo) clone() CategoryInfo {
	out := ci
	out.Tips = append([]string(nil), ci.Tips...)
	out.Products = append([]Product(nil), ci.Products...)
	return out
}

// ModelAccuracy is the offline evaluation of the model the coefficient
// table was derived from.
type ModelAccuracy struct {
	R2   float64 `json:"r2_score"`
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
}

// Calibration bounds and describes the population the coefficients were
// fitted to.
type Calibration struct {
	LowerBound  float64       `json:"lower_bound"`
	UpperBound  float64       `json:"upper_bound"`
	DatasetMean float64       `json:"dataset_mean"`
	DatasetStd  float64       `json:"dataset_std"`
	Model       ModelAccuracy `json:"model_accuracy"`
}
