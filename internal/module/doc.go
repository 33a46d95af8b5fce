// Package module provides handler registration and the event-key registry
// consumed by the dispatcher.
//
// A Module is a named group of event handlers. Handlers are produced through
// a two-phase factory protocol: the registry resolves an event key to a
// Factory, the factory constructs a Handler for one request, and the handler
// is invoked with that request. Both phases may fail; the dispatcher coerces
// those failures to error responses.
//
// A Registry is immutable once built. Lookups require no locking, so the
// registry can be shared by reference across the synchronous dispatch path
// and every concurrently spawned dispatch task.
package module
