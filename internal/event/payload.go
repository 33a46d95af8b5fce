package event

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Payload is an opaque JSON document attached to a request or response.
// A nil Payload is valid and behaves like an empty document.
type Payload []byte

// NewPayload creates a payload from raw bytes.
func NewPayload(data []byte) Payload {
	return Payload(data)
}

// Get retrieves a value at a gjson path (e.g. "user.name").
func (p Payload) Get(path string) gjson.Result {
	return gjson.GetBytes(p, path)
}

// Set returns a copy of the payload with the value at path replaced.
// The receiver is not modified.
func (p Payload) Set(path string, value any) (Payload, error) {
	out, err := sjson.SetBytes(p, path, value)
	if err != nil {
		return nil, err
	}
	return Payload(out), nil
}

// Clone returns an independent copy of the payload.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	copy(out, p)
	return out
}

// IsEmpty returns true if the payload carries no data.
func (p Payload) IsEmpty() bool {
	return len(p) == 0
}

// String returns the payload as a string.
func (p Payload) String() string {
	return string(p)
}
