// Package dispatch implements the in-process command dispatch core.
//
// A Dispatcher accepts work items (a request plus an optional one-shot
// completion callback), routes each to a handler selected by event key
// through an immutable module registry, and delivers the resolved response
// back to the caller.
//
// # Delivery modes
//
// Two delivery modes are provided:
//
//   - AsyncSend enqueues the item onto a FIFO queue and returns immediately.
//     A background Loop drains the queue and spawns one independent goroutine
//     per item. Items sent after the consuming side has shut down are
//     silently dropped; this is a deliberate fire-and-forget semantic.
//
//   - SyncSend bypasses the queue entirely and resolves the item on the
//     calling goroutine with a fresh routing Service.
//
// The two modes provide no relative ordering guarantee, and completions of
// concurrently dispatched items are unordered.
//
// # Queue sizing
//
// By default the queue is unbounded and applies no backpressure: a slow or
// absent consumer causes unbounded memory growth. Hosts that cannot accept
// that risk should set WithCapacity and an overflow policy.
//
// # Error handling
//
// A Service always resolves to a Response. Routing misses, handler factory
// failures, handler errors, and handler panics are all coerced to error
// responses; the dispatch core never raises errors to its callers. Only
// contract violations by embedding code (taking the receiver twice,
// resolving an item whose request was already consumed) panic.
package dispatch
