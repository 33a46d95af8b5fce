// Package runtime wires the dispatch subsystem into a running host: it
// builds the module registry (including configured Lua scripts), owns the
// dispatcher and its background loop, and manages startup and graceful
// drain on shutdown.
package runtime
