package module

import "errors"

// Sentinel errors for module registration.
var (
	// ErrDuplicateEvent indicates two registrations claimed the same event key.
	ErrDuplicateEvent = errors.New("module: duplicate event key")

	// ErrEmptyEventKey indicates a registration with an empty event key.
	ErrEmptyEventKey = errors.New("module: empty event key")

	// ErrNilFactory indicates a registration with a nil factory.
	ErrNilFactory = errors.New("module: nil handler factory")
)
