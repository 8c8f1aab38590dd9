// Package apperr defines the error taxonomy shared by all service layers.
package apperr

import "fmt"

// Kind classifies an application error.
type Kind int

const (
	// KindNotFound means a referenced entity does not exist.
	KindNotFound Kind = iota
	// KindValidation means the caller input is malformed.
	KindValidation
	// KindProcessing means an uploaded capture could not be processed.
	KindProcessing
	// KindInternal means storage or transport failed.
	KindInternal
)

// Error is a typed application error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NotFound builds a not-found error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation builds a validation error.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Processing builds a processing error.
func Processing(format string, args ...any) *Error {
	return &Error{Kind: KindProcessing, Message: fmt.Sprintf(format, args...)}
}

// Internal builds an internal error.
func Internal(format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or KindInternal for untyped errors.
func KindOf(err error) Kind {
	if appErr, ok := err.(*Error); ok {
		return appErr.Kind
	}
	return KindInternal
}
