package runtime

import "errors"

// Sentinel errors for the runtime package.
var (
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("runtime: already started")
)
