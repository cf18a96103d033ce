package models

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable error category exposed at service boundaries.
type ErrorKind string

const (
	KindNotFound                 ErrorKind = "not_found"
	KindConflict                 ErrorKind = "conflict"
	KindInvalidState             ErrorKind = "invalid_state"
	KindMalformedGradingOutput   ErrorKind = "malformed_grading_output"
	KindTransientGradingFailure  ErrorKind = "transient_grading_failure"
	KindInsufficientData         ErrorKind = "insufficient_data"
	KindRenderFailed             ErrorKind = "render_failed"
)

// Error is a domain error carrying a kind callers branch on and a message
// safe to surface at the HTTP boundary.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%v)", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a domain error without a wrapped cause.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Errorf builds a domain error with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds a domain error around an underlying cause.
func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain, or "" for non-domain errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
