package footprint

import "fmt"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for the calculation pipeline.
var (
	// ErrMalformedAnswer indicates an answer record missing required fields
	// or carrying values of the wrong type. Such answers are skipped.
	ErrMalformedAnswer = constError("malformed answer")

	// ErrZeroBaseline indicates a non-zero emission compared against a zero
	// baseline, which can only come from a misconfigured reference dataset.
	ErrZeroBaseline = constError("zero baseline")

	// ErrNilStore indicates an engine constructed without reference data.
	ErrNilStore = constError("reference data store is nil")
)

// CalculationError is the typed failure returned when the reference data
// makes a calculation impossible. It is never returned for bad user input.
type CalculationError struct {
	// Op names the pipeline stage that failed.
	Op string
	// Err is the underlying cause.
	Err error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("footprint %s: %v", e.Op, e.Err)
}

func (e *CalculationError) Unwrap() error { return e.Err }
