package conversation

import (
	"errors"
	"fmt"

	"github.com/samber/oops"
)

var (
	ErrEmptyInput       = errors.New("message is empty")
	ErrInputTooLong     = errors.New("message is too long")
	ErrTurnInProgress   = errors.New("a response is already being generated")
	ErrInvocationFailed = errors.New("workflow invocation failed")
	ErrMalformedResult  = errors.New("workflow returned a malformed result")
	ErrSessionReset     = errors.New("conversation was reset during the turn")
)

// FailureNotice is what users see for any failed turn.
const FailureNotice = "Unable to generate a response. Please try again."

var errorCodes = map[error]string{
	ErrEmptyInput:       "empty_input",
	ErrInputTooLong:     "input_too_long",
	ErrTurnInProgress:   "turn_in_progress",
	ErrInvocationFailed: "invocation_failed",
	ErrMalformedResult:  "malformed_result",
	ErrSessionReset:     "session_reset",
}

func turnError(sessionID string, kind error, cause error) error {
	err := kind
	if cause != nil {
		err = fmt.Errorf("%w: %w", kind, cause)
	}

	return oops.
		In("conversation").
		Code(errorCodes[kind]).
		With("session_id", sessionID).
		Wrap(err)
}

// Notice returns the user-facing text for an error returned by ProcessTurn.
func Notice(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyInput):
		return "Please type a message first."
	case errors.Is(err, ErrInputTooLong):
		return "That message is too long. Please shorten it and try again."
	case errors.Is(err, ErrTurnInProgress):
		return "Still working on your previous message. Please wait a moment."
	default:
		return FailureNotice
	}
}
