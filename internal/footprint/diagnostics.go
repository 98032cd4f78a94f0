package footprint

import (
	"errors"

	"github.com/rshade/footprint/internal/refdata"
)

// DiagnosticCode classifies why an answer was skipped or approximated.
type DiagnosticCode string

// Diagnostic codes attached to results.
const (
	DiagMalformedAnswer  DiagnosticCode = "malformed_answer"
	DiagUnknownCategory  DiagnosticCode = "unknown_category"
	DiagUnknownTopic     DiagnosticCode = "unknown_topic"
	DiagCategoryMismatch DiagnosticCode = "category_mismatch"
	DiagKindMismatch     DiagnosticCode = "kind_mismatch"
	DiagUnknownOption    DiagnosticCode = "unknown_option"
	DiagSliderClamped    DiagnosticCode = "slider_clamped"
)

// Skips reports whether an answer carrying this code contributed nothing.
func (c DiagnosticCode) Skips() bool {
	switch c {
	case DiagUnknownOption, DiagSliderClamped:
		return false
	default:
		return true
	}
}

// Diagnostic records a non-fatal problem with one submitted answer.
type Diagnostic struct {
	// Index is the position of the answer in the submitted set.
	Index   int            `json:"index"`
	Code    DiagnosticCode `json:"code"`
	Topic   string         `json:"topic,omitempty"`
	Message string         `json:"message"`
}

// decodeDiagnostic converts a Decode failure into a diagnostic.
func decodeDiagnostic(index int, raw RawAnswer, err error) Diagnostic {
	code := DiagMalformedAnswer
	if errors.Is(err, refdata.ErrUnknownCategory) {
		code = DiagUnknownCategory
	}
	return Diagnostic{
		Index:   index,
		Code:    code,
		Topic:   refdata.NormalizeTopic(raw.Topic),
		Message: err.Error(),
	}
}
