package event

import (
	"fmt"

	"github.com/google/uuid"
)

// Request is a single unit of work submitted to the dispatcher.
// It names the event key used for handler selection and carries an
// identifier that survives into the handler for tracing and correlation.
type Request struct {
	// Event is the key used to select a handler from the module registry.
	Event string

	// ID uniquely identifies this request instance.
	ID string

	// Payload is the event-specific data.
	Payload Payload
}

// NewRequest creates a request for the given event key with a generated ID.
func NewRequest(eventKey string) *Request {
	return &Request{
		Event: eventKey,
		ID:    uuid.NewString(),
	}
}

// WithPayload returns the request with its payload set.
func (r *Request) WithPayload(p Payload) *Request {
	r.Payload = p
	return r
}

// WithID returns the request with an explicit identifier.
func (r *Request) WithID(id string) *Request {
	r.ID = id
	return r
}

// String returns a short description for logs and error messages.
func (r *Request) String() string {
	return fmt.Sprintf("event=%s id=%s", r.Event, r.ID)
}
