// Package apperr defines the error kinds surfaced by the matching engine.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error for callers and the HTTP layer.
type Kind string

const (
	KindConfig      Kind = "config_error"
	KindValidation  Kind = "validation_error"
	KindNotFound    Kind = "not_found"
	KindPersistence Kind = "persistence_error"
	KindConflict    Kind = "conflict"
	KindInternal    Kind = "internal_error"
)

// Error is a structured engine error with a kind and a user-facing message.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to err.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Config reports an invalid catalog or process configuration.
func Config(format string, args ...any) *Error {
	return New(KindConfig, format, args...)
}

// Validation reports a malformed request.
func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

// NotFound reports an unknown award, criterion or content item.
func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

// KindOf returns the kind of the first Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the user-facing message of err.
// Errors without a kind get a generic message so internals do not leak.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}
