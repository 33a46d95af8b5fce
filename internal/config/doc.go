// Package config loads host configuration for the flowline runtime.
//
// Configuration is a single TOML file. A missing file is not an error; the
// runtime starts with defaults. Example:
//
//	[log]
//	level = "info"
//	format = "text"
//
//	[queue]
//	capacity = 0            # 0 = unbounded
//	overflow = "drop-newest"
//
//	[[script]]
//	name = "greeter"
//	path = "scripts/greeter.lua"
package config
