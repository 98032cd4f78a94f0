package footprint

import (
	"fmt"
	"strconv"

	"github.com/rshade/footprint/internal/refdata"
)

// Contribution is the annual emission attributed to one accepted answer.
type Contribution struct {
	// Index is the position of the answer in the submitted set.
	Index      int              `json:"index"`
	Category   refdata.Category `json:"category"`
	Topic      string           `json:"topic"`
	QuestionID int              `json:"question_id"`
	Kind       refdata.Kind     `json:"type"`

	// Input is the option label or the clamped slider value with its unit.
	Input string `json:"input"`

	// Emission is in kg CO2 per year.
	Emission float64 `json:"emission"`

	// Approximate is set when an unknown option was replaced by a fallback
	// weight.
	Approximate bool `json:"approximate,omitempty"`
}

// Normalizer maps typed answers onto reference weights.
type Normalizer struct {
	store *refdata.Store
}

// NewNormalizer creates a Normalizer backed by store.
func NewNormalizer(store *refdata.Store) *Normalizer {
	return &Normalizer{store: store}
}

// Normalize resolves a single answer. It returns the contribution, any
// diagnostics raised, and whether the answer was accepted. Rejected answers
// contribute nothing.
func (n *Normalizer) Normalize(index int, a Answer) (Contribution, []Diagnostic, bool) {
	switch ans := a.(type) {
	case ChoiceAnswer:
		return n.choice(index, ans)
	case SliderAnswer:
		return n.slider(index, ans)
	default:
		return Contribution{}, []Diagnostic{{
			Index:   index,
			Code:    DiagMalformedAnswer,
			Message: fmt.Sprintf("unsupported answer type %T", a),
		}}, false
	}
}

func (n *Normalizer) choice(index int, a ChoiceAnswer) (Contribution, []Diagnostic, bool) {
	q, diag, ok := n.resolve(index, a.Category, a.Ref, refdata.KindChoice)
	if !ok {
		return Contribution{}, []Diagnostic{diag}, false
	}

	c := contributionFor(index, q)
	if opt, found := q.Option(a.Option); found {
		c.Input = opt.Label
		c.Emission = opt.CO2
		return c, nil, true
	}

	weight := q.Fallback
	if weight <= 0 {
		ci, _ := n.store.Category(q.Category)
		weight = ci.DefaultWeight
	}
	c.Input = a.Option
	c.Emission = weight
	c.Approximate = true
	return c, []Diagnostic{{
		Index:   index,
		Code:    DiagUnknownOption,
		Topic:   q.Topic,
		Message: fmt.Sprintf("option %q is not recognized; using fallback weight %g", a.Option, weight),
	}}, true
}

func (n *Normalizer) slider(index int, a SliderAnswer) (Contribution, []Diagnostic, bool) {
	q, diag, ok := n.resolve(index, a.Category, a.Ref, refdata.KindSlider)
	if !ok {
		return Contribution{}, []Diagnostic{diag}, false
	}

	var diags []Diagnostic
	value := q.Slider.Clamp(a.Value)
	if value != a.Value {
		diags = append(diags, Diagnostic{
			Index: index,
			Code:  DiagSliderClamped,
			Topic: q.Topic,
			Message: fmt.Sprintf("value %g outside [%g, %g]; using %g",
				a.Value, q.Slider.Min, q.Slider.Max, value),
		})
	}

	c := contributionFor(index, q)
	c.Input = strconv.FormatFloat(value, 'f', -1, 64)
	if q.Slider.Unit != "" {
		c.Input += " " + q.Slider.Unit
	}
	c.Emission = value * q.Slider.Coefficient
	return c, diags, true
}

// resolve finds the question an answer refers to, by topic first and then
// by question id, and checks that it belongs to the stated category and has
// the expected kind.
func (n *Normalizer) resolve(
	index int,
	cat refdata.Category,
	ref Ref,
	kind refdata.Kind,
) (refdata.Question, Diagnostic, bool) {
	var (
		q     refdata.Question
		found bool
	)
	if ref.Topic != "" {
		q, found = n.store.QuestionByTopic(ref.Topic)
	}
	if !found && ref.QuestionID > 0 {
		q, found = n.store.QuestionByID(ref.QuestionID)
	}

	switch {
	case !found:
		return q, Diagnostic{
			Index:   index,
			Code:    DiagUnknownTopic,
			Topic:   ref.Topic,
			Message: fmt.Sprintf("no %s question matches %s", cat, ref),
		}, false
	case q.Category != cat:
		return q, Diagnostic{
			Index:   index,
			Code:    DiagCategoryMismatch,
			Topic:   q.Topic,
			Message: fmt.Sprintf("question %s belongs to %s, not %s", q.Topic, q.Category, cat),
		}, false
	case q.Kind != kind:
		return q, Diagnostic{
			Index:   index,
			Code:    DiagKindMismatch,
			Topic:   q.Topic,
			Message: fmt.Sprintf("question %s is a %s question, answer is a %s", q.Topic, q.Kind, kind),
		}, false
	}
	return q, Diagnostic{}, true
}

func contributionFor(index int, q refdata.Question) Contribution {
	return Contribution{
		Index:      index,
		Category:   q.Category,
		Topic:      q.Topic,
		QuestionID: q.ID,
		Kind:       q.Kind,
	}
}
