package event

import "fmt"

// ErrorCode classifies dispatch-level failures.
type ErrorCode uint8

const (
	// CodeInternal indicates a failure inside the dispatch subsystem itself,
	// such as an unresolved event key.
	CodeInternal ErrorCode = iota
	// CodeHandler indicates a failure raised by a handler or handler factory.
	CodeHandler
)

// String returns a string representation of the code.
func (c ErrorCode) String() string {
	switch c {
	case CodeInternal:
		return "internal"
	case CodeHandler:
		return "handler"
	default:
		return "unknown"
	}
}

// Error is a classified dispatch failure. It wraps an optional cause so
// callers can use errors.Is and errors.As across the coercion boundary.
type Error struct {
	// Code classifies the failure.
	Code ErrorCode

	// Msg is a human-readable description.
	Msg string

	cause error
}

// InternalErrorf creates an internal dispatch error.
func InternalErrorf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Msg: fmt.Sprintf(format, args...)}
}

// HandlerError wraps a failure raised by a handler or its factory.
func HandlerError(err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: CodeHandler, Msg: err.Error(), cause: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Code.String() + ": " + e.Msg
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// ResponseFromError converts any error into an error Response.
// It is total: every non-nil error yields a StatusError response, so the
// dispatcher never raises errors to its own callers. A nil error yields a
// plain success response.
func ResponseFromError(err error) Response {
	if err == nil {
		return Success()
	}
	return ErrorResponse(err)
}
