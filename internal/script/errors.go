package script

import "errors"

// Sentinel errors for the script package.
var (
	// ErrNoHandlers indicates the script did not define a handlers table
	// with at least one function.
	ErrNoHandlers = errors.New("script: no handlers table defined")

	// ErrClosed is returned when a handler is invoked after Close.
	ErrClosed = errors.New("script: script is closed")
)
