package event

import "fmt"

// StatusCode indicates the outcome of a dispatch.
type StatusCode uint8

const (
	// StatusOK indicates the handler completed successfully.
	StatusOK StatusCode = iota
	// StatusError indicates the dispatch failed; Err describes why.
	StatusError
)

// String returns a string representation of the status.
func (s StatusCode) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Response is the resolved outcome of one dispatched request.
// It is a value type and cheap to copy; use Clone when the payload must not
// be shared between consumers.
type Response struct {
	// Status indicates success or failure.
	Status StatusCode

	// Payload is the handler-produced data, if any.
	Payload Payload

	// Err describes the failure when Status is StatusError.
	Err error
}

// Success creates a successful response with no payload.
func Success() Response {
	return Response{Status: StatusOK}
}

// SuccessWithPayload creates a successful response carrying data.
func SuccessWithPayload(p Payload) Response {
	return Response{Status: StatusOK, Payload: p}
}

// ErrorResponse creates an error response from an error value.
func ErrorResponse(err error) Response {
	return Response{Status: StatusError, Err: err}
}

// Errorf creates an error response with a formatted message.
func Errorf(format string, args ...any) Response {
	return Response{Status: StatusError, Err: fmt.Errorf(format, args...)}
}

// IsOK returns true if the response indicates success.
func (r Response) IsOK() bool {
	return r.Status == StatusOK
}

// IsError returns true if the response indicates failure.
func (r Response) IsError() bool {
	return r.Status == StatusError
}

// Clone returns a copy of the response with an independent payload.
// The error value is shared; errors are treated as immutable.
func (r Response) Clone() Response {
	out := r
	out.Payload = r.Payload.Clone()
	return out
}
