// Package caperr provides the typed error kinds shared across the
// capture pipeline. Every failure surfaced by the core carries one of
// these kinds so callers can branch without string matching.
package caperr

import (
	"errors"
	"fmt"
)

// Kind categorizes a capture pipeline failure.
type Kind int

const (
	// KindPermission means the capture backend lacks screen recording access.
	KindPermission Kind = iota
	// KindCancelled means the user aborted an interactive capture.
	KindCancelled
	// KindCaptureFailed covers backend and geometry resolution failures.
	KindCaptureFailed
	// KindStitchFailed means too few usable frames remained after filtering.
	KindStitchFailed
	// KindCommandFailed covers external process failures outside the core.
	KindCommandFailed
	// KindValidationFailed covers malformed rectangles and dimension mismatches.
	KindValidationFailed
)

func (k Kind) String() string {
	switch k {
	case KindPermission:
		return "permission"
	case KindCancelled:
		return "cancelled"
	case KindCaptureFailed:
		return "capture_failed"
	case KindStitchFailed:
		return "stitch_failed"
	case KindCommandFailed:
		return "command_failed"
	case KindValidationFailed:
		return "validation_failed"
	default:
		return "unknown"
	}
}

// Error is the base error type with a kind and optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	return s
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with the given kind and message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error under the given kind.
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Cause: err}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: err}
}

// IsKind reports whether err (or anything it wraps) carries the kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
