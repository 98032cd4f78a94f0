package config

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for configuration problems.
var (
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = constError("invalid configuration")

	// ErrInvalidEnv indicates an environment variable that could not be
	// parsed into its setting.
	ErrInvalidEnv = constError("invalid environment variable")
)
