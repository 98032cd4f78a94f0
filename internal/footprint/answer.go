package footprint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rshade/footprint/internal/refdata"
)

// Ref identifies the question an answer belongs to. Topic takes precedence;
// QuestionID is consulted when the topic is empty or unknown.
type Ref struct {
	Topic      string
	QuestionID int
}

func (r Ref) String() string {
	if r.Topic != "" {
		return r.Topic
	}
	return "#" + strconv.Itoa(r.QuestionID)
}

// Answer is a decoded quiz answer. It is implemented only by ChoiceAnswer
// and SliderAnswer.
type Answer interface {
	kind() refdata.Kind
}

// ChoiceAnswer selects one labeled option of a choice question.
type ChoiceAnswer struct {
	Category refdata.Category
	Ref      Ref
	Option   string
}

func (ChoiceAnswer) kind() refdata.Kind { return refdata.KindChoice }

// SliderAnswer carries a numeric value for a slider question. Value is not
// yet clamped to the question's range.
type SliderAnswer struct {
	Category refdata.Category
	Ref      Ref
	Value    float64
}

func (SliderAnswer) kind() refdata.Kind { return refdata.KindSlider }

// Number is a JSON number that also accepts numeric strings. Invalid input
// never fails decoding; it leaves Valid false so the answer can be skipped
// on its own.
type Number struct {
	Value float64
	Valid bool
}

// NewNumber returns a valid Number holding v.
func NewNumber(v float64) *Number {
	return &Number{Value: v, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	text := strings.TrimSpace(string(b))
	*n = Number{}
	if text == "null" {
		return nil
	}
	if strings.HasPrefix(text, `"`) {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return nil //nolint:nilerr // recorded as invalid
		}
		text = strings.TrimSpace(unquoted)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil //nolint:nilerr // recorded as invalid
	}
	n.Value = v
	n.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// RawAnswer is an answer as submitted by a client, before validation.
//
// Older clients send the selected label as "text" instead of
// "selectedOption" and include a client-side "co2" estimate; the label is
// honored and the estimate ignored.
type RawAnswer struct {
	Category       string  `json:"category"`
	Type           string  `json:"type,omitempty"`
	Topic          string  `json:"topic,omitempty"`
	QuestionID     int     `json:"questionId,omitempty"`
	QuestionText   string  `json:"questionText,omitempty"`
	SelectedOption *string `json:"selectedOption,omitempty"`
	Text           *string `json:"text,omitempty"`
	SliderValue    *Number `json:"sliderValue,omitempty"`

	err error
}

// Err returns the decode failure recorded for this answer, if any.
func (r RawAnswer) Err() error { return r.err }

// AnswerSet is the ordered list of submitted answers. It decodes from
// either a JSON array or an object keyed by question id; object entries are
// ordered by ascending numeric key. A single malformed entry does not fail
// decoding of the set.
type AnswerSet []RawAnswer

// UnmarshalJSON implements json.Unmarshaler.
func (s *AnswerSet) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*s = nil
		return nil
	case bytes.HasPrefix(trimmed, []byte("[")):
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("decoding answer list: %w", err)
		}
		out := make(AnswerSet, 0, len(items))
		for _, item := range items {
			out = append(out, decodeRaw(item))
		}
		*s = out
		return nil
	case bytes.HasPrefix(trimmed, []byte("{")):
		var keyed map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &keyed); err != nil {
			return fmt.Errorf("decoding answer map: %w", err)
		}
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return lessKey(keys[i], keys[j]) })

		out := make(AnswerSet, 0, len(keys))
		for _, k := range keys {
			raw := decodeRaw(keyed[k])
			if id, err := strconv.Atoi(k); err == nil && raw.QuestionID == 0 && raw.err == nil {
				raw.QuestionID = id
			}
			out = append(out, raw)
		}
		*s = out
		return nil
	default:
		return fmt.Errorf("answers must be a JSON array or object, got %.20q", trimmed)
	}
}

// lessKey orders numeric keys numerically, before any non-numeric keys,
// which are ordered lexically.
func lessKey(a, b string) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return ai < bi
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}

func decodeRaw(b json.RawMessage) RawAnswer {
	var r RawAnswer
	if err := json.Unmarshal(b, &r); err != nil {
		return RawAnswer{err: fmt.Errorf("%w: %w", ErrMalformedAnswer, err)}
	}
	return r
}

// Decode validates the shape of a raw answer and converts it into a typed
// Answer. Errors wrap ErrMalformedAnswer, or refdata.ErrUnknownCategory when
// the category name is not recognized.
func Decode(r RawAnswer) (Answer, error) {
	if r.err != nil {
		return nil, r.err
	}
	if strings.TrimSpace(r.Category) == "" {
		return nil, fmt.Errorf("%w: missing category", ErrMalformedAnswer)
	}
	cat, err := refdata.ParseCategory(r.Category)
	if err != nil {
		return nil, err
	}

	ref := Ref{Topic: refdata.NormalizeTopic(r.Topic), QuestionID: r.QuestionID}
	if ref.Topic == "" && ref.QuestionID <= 0 {
		return nil, fmt.Errorf("%w: missing topic and question id", ErrMalformedAnswer)
	}

	option := r.SelectedOption
	if option == nil {
		option = r.Text
	}

	kind, err := answerKind(r.Type, option != nil, r.SliderValue != nil)
	if err != nil {
		return nil, err
	}

	switch kind {
	case refdata.KindSlider:
		if r.SliderValue == nil || !r.SliderValue.Valid {
			return nil, fmt.Errorf("%w: slider %s has no numeric value", ErrMalformedAnswer, ref)
		}
		return SliderAnswer{Category: cat, Ref: ref, Value: r.SliderValue.Value}, nil
	default:
		if option == nil || strings.TrimSpace(*option) == "" {
			return nil, fmt.Errorf("%w: choice %s has no selected option", ErrMalformedAnswer, ref)
		}
		return ChoiceAnswer{Category: cat, Ref: ref, Option: *option}, nil
	}
}

// answerKind resolves the declared type, inferring it from the populated
// fields when the client omitted it.
func answerKind(declared string, hasOption, hasValue bool) (refdata.Kind, error) {
	if strings.TrimSpace(declared) != "" {
		kind, err := refdata.ParseKind(declared)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrMalformedAnswer, err)
		}
		return kind, nil
	}
	switch {
	case hasOption:
		return refdata.KindChoice, nil
	case hasValue:
		return refdata.KindSlider, nil
	default:
		return 0, fmt.Errorf("%w: missing type", ErrMalformedAnswer)
	}
}
