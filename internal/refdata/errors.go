package refdata

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for reference data parsing and validation.
var (
	// ErrUnknownCategory indicates a name outside the four declared categories.
	ErrUnknownCategory = constError("unknown category")

	// ErrUnknownKind indicates a question or answer type other than choice/slider.
	ErrUnknownKind = constError("unknown question kind")

	// ErrUnsupportedVersion indicates a reference file with an incompatible schema version.
	ErrUnsupportedVersion = constError("unsupported reference data version")

	// ErrMissingBaseline indicates a declared category without reference values.
	ErrMissingBaseline = constError("missing category baseline")

	// ErrInvalidBaseline indicates a negative baseline.
	ErrInvalidBaseline = constError("invalid category baseline")

	// ErrInvalidDefaultWeight indicates a category fallback weight that is not positive.
	ErrInvalidDefaultWeight = constError("category default weight must be positive")

	// ErrInvalidQuestion indicates a malformed question definition.
	ErrInvalidQuestion = constError("invalid question")

	// ErrDuplicateQuestion indicates two questions sharing an id or topic.
	ErrDuplicateQuestion = constError("duplicate question")

	// ErrInvalidBounds indicates a calibration range with lower > upper or negative bounds.
	ErrInvalidBounds = constError("invalid calibration bounds")

	// ErrInvalidDatasetMean indicates a calibration dataset mean that is not positive.
	ErrInvalidDatasetMean = constError("calibration dataset mean must be positive")
)
