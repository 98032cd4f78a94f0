// Package chat answers free-form questions about a user's footprint by
// forwarding them, with the computed results as context, to an
// OpenAI-compatible chat completions API.
package chat
