package service

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

// Domain error codes.
const (
	CodeNotFound         Code = "NOT_FOUND"
	CodeAccessViolation  Code = "ACCESS_VIOLATION"
	CodeItemNotAvailable Code = "ITEM_NOT_AVAILABLE"
	CodeInvalidRequest   Code = "INVALID_REQUEST"
	CodeConflict         Code = "CONFLICT"
)

// Error is a failure the caller caused, as opposed to an infrastructure
// failure. Message is safe to show to clients.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error with the same code, so the sentinels below work
// with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrNotFound         = &Error{Code: CodeNotFound, Message: "not found"}
	ErrAccessViolation  = &Error{Code: CodeAccessViolation, Message: "access denied"}
	ErrItemNotAvailable = &Error{Code: CodeItemNotAvailable, Message: "item not available"}
	ErrInvalidRequest   = &Error{Code: CodeInvalidRequest, Message: "invalid request"}
	ErrConflict         = &Error{Code: CodeConflict, Message: "conflict"}
)

// ErrInvalidCredentials is returned by Authenticate for any unknown email
// or wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

func newError(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error {
	return newError(CodeNotFound, format, args...)
}

func accessViolation(format string, args ...any) error {
	return newError(CodeAccessViolation, format, args...)
}

func notAvailable(format string, args ...any) error {
	return newError(CodeItemNotAvailable, format, args...)
}

func invalid(format string, args ...any) error {
	return newError(CodeInvalidRequest, format, args...)
}

func conflict(format string, args ...any) error {
	return newError(CodeConflict, format, args...)
}

// CodeOf returns the domain code of err, if it is or wraps an *Error.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}
