// Package upstream holds the error shape shared by the WinTeam and Monday
// gateways.
package upstream

import (
	"errors"
	"fmt"
)

const MaxBodyBytes = 1000

// Error is returned for non-2xx responses, undecodable bodies and transport
// failures. Body is truncated to MaxBodyBytes.
type Error struct {
	Service string
	Status  int
	Body    string
}

func NewError(service string, status int, body string) *Error {
	return &Error{Service: service, Status: status, Body: Truncate(body, MaxBodyBytes)}
}

func (e *Error) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s request failed (%d)", e.Service, e.Status)
	}
	return fmt.Sprintf("%s request failed (%d): %s", e.Service, e.Status, e.Body)
}

// As unwraps err into an *Error.
func As(err error) (*Error, bool) {
	var upErr *Error
	if errors.As(err, &upErr) {
		return upErr, true
	}
	return nil, false
}

func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
