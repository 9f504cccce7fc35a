package types

import "errors"

type ErrorKind string

const (
	// KindInput covers missing or unreadable inputs (no images, unreadable files).
	KindInput ErrorKind = "INPUT"
	// KindBounds marks numeric fields that were replaced by a safe default.
	KindBounds ErrorKind = "BOUNDS"
	// KindBackend covers failures of the PDF read/write/draw primitives.
	KindBackend ErrorKind = "BACKEND"
)

// Error is the domain error returned by the layout, render and merge packages.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewInputError(message string, cause error) *Error {
	return &Error{Kind: KindInput, Message: message, Cause: cause}
}

func NewBoundsError(message string, cause error) *Error {
	return &Error{Kind: KindBounds, Message: message, Cause: cause}
}

func NewBackendError(message string, cause error) *Error {
	return &Error{Kind: KindBackend, Message: message, Cause: cause}
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
