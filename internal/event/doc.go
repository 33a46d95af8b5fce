// Package event defines the request and response shapes that flow through
// the dispatch subsystem.
//
// A Request names an event key, carries a unique identifier, and holds an
// opaque JSON payload. A Response is a small success/error union that is
// cheap to copy, so the same value can be returned to a direct caller and
// handed to a completion callback.
//
// The package also provides the universal error-to-response coercion used by
// the dispatcher: every error reachable from normal traffic is converted to
// an error Response rather than propagated to the dispatcher's callers.
package event
