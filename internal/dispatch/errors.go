package dispatch

import "errors"

// Sentinel errors for the dispatch package.
var (
	// ErrAlreadyRunning is returned when Run is called on a loop that has
	// already been started.
	ErrAlreadyRunning = errors.New("dispatch: loop is already running")
)
