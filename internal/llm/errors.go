package llm

import (
	"errors"
	"fmt"
)

// ErrAPIFailure indicates the endpoint answered with a non-success HTTP
// status. Body holds the raw response body for diagnostics.
type ErrAPIFailure struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ErrAPIFailure) Error() string {
	return fmt.Sprintf("LLM API failure (status %d): %s", e.StatusCode, e.Body)
}

func (e *ErrAPIFailure) Unwrap() error { return e.Err }

// ErrUnexpected covers every other generation failure: network errors,
// timeouts, malformed or incomplete response bodies.
type ErrUnexpected struct {
	Err error
}

func (e *ErrUnexpected) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected LLM failure: %v", e.Err)
	}
	return "unexpected LLM failure"
}

func (e *ErrUnexpected) Unwrap() error { return e.Err }

// AsAPIFailure returns the *ErrAPIFailure in err's chain, if any.
func AsAPIFailure(err error) (*ErrAPIFailure, bool) {
	var apiErr *ErrAPIFailure
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAPIFailure reports whether err is, or wraps, an *ErrAPIFailure.
func IsAPIFailure(err error) bool {
	_, ok := AsAPIFailure(err)
	return ok
}
