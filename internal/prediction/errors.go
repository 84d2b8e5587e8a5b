package prediction

import (
	"errors"
	"fmt"
)

// ErrTransport matches every failed prediction exchange, whatever the cause.
var ErrTransport = errors.New("prediction request failed")

// Hints describe a failure in terms a user can act on.
const (
	HintUnreachable = "classification service unreachable"
	HintTimeout     = "classification service timed out"
	HintMalformed   = "malformed response from classification service"
)

// Error is the single failure outcome of a prediction exchange.
// It matches ErrTransport and, when present, the underlying cause.
type Error struct {
	Hint       string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrTransport, e.Hint)
	}
	return fmt.Sprintf("%s: %s: %v", ErrTransport, e.Hint, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}

func statusHint(code int) string {
	return fmt.Sprintf("classification service returned status %d", code)
}
