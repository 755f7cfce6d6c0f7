package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the LLM backend is unreachable.
	ErrUnavailable = errors.New("llm backend unavailable")

	// ErrTimeout indicates the LLM request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the LLM response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	// ErrNotConfigured indicates a required credential is missing.
	ErrNotConfigured = errors.New("llm backend not configured")
)

// statusError is a non-2xx reply. 4xx replies other than 429 are not retried.
type statusError struct {
	provider Provider
	status   int
	body     string
}

func (e *statusError) Error() string {
	body := e.body
	if len(body) > 300 {
		body = body[:300]
	}
	return fmt.Sprintf("%s returned status %d: %s", e.provider, e.status, body)
}

func (e *statusError) permanent() bool {
	return e.status >= 400 && e.status < 500 && e.status != 429
}
