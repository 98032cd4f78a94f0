package chat

type constError string

func (e constError) Error() string { return string(e) }

const (
	// ErrDisabled is returned when chat is turned off or has no API key.
	ErrDisabled constError = "chat is not available"
	// ErrEmptyMessage is returned for a blank user message.
	ErrEmptyMessage constError = "message cannot be empty"
	// ErrUpstream wraps failures of the completions API.
	ErrUpstream constError = "chat upstream failed"
	// ErrEmptyReply is returned when the API answers with no choices.
	ErrEmptyReply constError = "empty reply from chat API"
)
