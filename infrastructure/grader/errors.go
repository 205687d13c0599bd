package grader

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is the sentinel wrapped by every response parsing
// failure, so callers can match the whole class with errors.Is.
var ErrMalformedResponse = errors.New("malformed grading response")

// MalformedResponseError reports a model response that could not be
// parsed or validated into the expected verdict structure. The raw
// response is retained for diagnostics but truncated in the message.
type MalformedResponseError struct {
	// Operation is "grade" or "compare".
	Operation string

	// Response is the raw model output.
	Response string

	// Err is the parse or validation failure.
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s response malformed: %v (response: %s)",
		e.Operation, e.Err, truncate(e.Response, 200))
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Is matches the ErrMalformedResponse sentinel.
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
