package llm

import "errors"

var (
	// ErrNotConfigured indicates the backend credential is missing or could
	// not be resolved.
	ErrNotConfigured = errors.New("llm backend not configured")

	// ErrBackend indicates a transport or backend-side failure on a call.
	ErrBackend = errors.New("llm backend request failed")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrEmptyResponse indicates the backend answered without any text.
	ErrEmptyResponse = errors.New("llm returned an empty response")
)
