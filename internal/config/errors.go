package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidLevel indicates an unknown log level.
	ErrInvalidLevel = errors.New("config: invalid log level")

	// ErrInvalidFormat indicates an unknown log format.
	ErrInvalidFormat = errors.New("config: invalid log format")

	// ErrInvalidCapacity indicates a negative queue capacity.
	ErrInvalidCapacity = errors.New("config: invalid queue capacity")

	// ErrInvalidOverflow indicates an unknown overflow policy name.
	ErrInvalidOverflow = errors.New("config: invalid overflow policy")

	// ErrIncompleteScript indicates a script entry missing its name or path.
	ErrIncompleteScript = errors.New("config: incomplete script entry")
)
