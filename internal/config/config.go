package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Overflow policy names accepted in [queue].
const (
	OverflowDropNewest = "drop-newest"
	OverflowDropOldest = "drop-oldest"
)

// Config is the full host configuration.
type Config struct {
	Log     LogConfig      `toml:"log"`
	Queue   QueueConfig    `toml:"queue"`
	Scripts []ScriptConfig `toml:"script"`
}

// LogConfig controls the slog setup.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format"`
}

// QueueConfig controls the async dispatch queue.
type QueueConfig struct {
	// Capacity bounds the queue; 0 means unbounded.
	Capacity int `toml:"capacity"`

	// Overflow selects the policy for a bounded queue.
	Overflow string `toml:"overflow"`
}

// ScriptConfig names one Lua handler script to load at startup.
type ScriptConfig struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Log:   LogConfig{Level: "info", Format: "text"},
		Queue: QueueConfig{Capacity: 0, Overflow: OverflowDropNewest},
	}
}

// Load reads configuration from path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for inconsistencies.
func (c Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: %w", c.Log.Level, ErrInvalidLevel)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q: %w", c.Log.Format, ErrInvalidFormat)
	}

	if c.Queue.Capacity < 0 {
		return fmt.Errorf("queue.capacity %d: %w", c.Queue.Capacity, ErrInvalidCapacity)
	}

	switch c.Queue.Overflow {
	case OverflowDropNewest, OverflowDropOldest:
	default:
		return fmt.Errorf("queue.overflow %q: %w", c.Queue.Overflow, ErrInvalidOverflow)
	}

	for _, s := range c.Scripts {
		if s.Name == "" || s.Path == "" {
			return fmt.Errorf("script entry name=%q path=%q: %w", s.Name, s.Path, ErrIncompleteScript)
		}
	}

	return nil
}
