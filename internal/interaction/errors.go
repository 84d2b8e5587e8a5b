package interaction

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JaimeStill/veritas/internal/prediction"
)

// Domain errors for interaction operations.
var (
	ErrValidation     = errors.New("input text is empty")
	ErrBusy           = errors.New("an analysis is already in progress")
	ErrUnknownExample = errors.New("unknown example")
	ErrNotReady       = errors.New("history is still loading")
)

// Error is a failed submission. Message is the text shown to the user; Err
// is the cause and matches the domain sentinels via errors.Is.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// MsgEmptyInput is shown when a submission has no text to analyze.
const MsgEmptyInput = "Please enter some news text to analyze."

// FailureMessage is shown when the classification service could not produce
// a result.
func FailureMessage(baseURL string) string {
	return fmt.Sprintf("Something went wrong. Make sure the classification service is running at %s.", baseURL)
}

// MapHTTPStatus maps interaction and prediction errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnknownExample):
		return http.StatusNotFound
	case errors.Is(err, ErrBusy):
		return http.StatusConflict
	case errors.Is(err, ErrNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, prediction.ErrTransport):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
