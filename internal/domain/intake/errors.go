package intake

import (
	"errors"
	"strings"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrUnprocessable = errors.New("request does not match intake type")
	ErrNotFound      = errors.New("not found")
	ErrVerification  = errors.New("verification failed")
)

// Error carries the caller-facing message for one of the sentinel kinds.
type Error struct {
	Kind    error
	Message string
	Missing []string
}

func (e *Error) Error() string {
	if len(e.Missing) > 0 {
		return e.Message + " missing: " + strings.Join(e.Missing, ", ")
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

func invalid(message string, missing ...string) *Error {
	return &Error{Kind: ErrValidation, Message: message, Missing: missing}
}

func unprocessable(message string) *Error {
	return &Error{Kind: ErrUnprocessable, Message: message}
}

func notFound(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func unverified(message string) *Error {
	return &Error{Kind: ErrVerification, Message: message}
}
