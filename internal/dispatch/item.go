package dispatch

import (
	"github.com/dshills/flowline/internal/event"
)

// Callback is a one-shot completion hook. It receives the caller context the
// item was created with and the resolved response.
type Callback[C any] func(ctx C, resp event.Response)

// Item bundles one request with a caller-supplied context and an optional
// completion callback. The context is opaque to the dispatcher and is
// round-tripped back to the caller through the callback.
//
// An Item is consumed exactly once by a routing Service. Its request is
// unrecoverable after consumption, and its callback, if present, fires
// exactly once.
type Item[C any] struct {
	context  C
	request  *event.Request
	callback Callback[C]
}

// NewItem creates an item for the given caller context and request.
func NewItem[C any](ctx C, req *event.Request) *Item[C] {
	return &Item[C]{context: ctx, request: req}
}

// WithCallback attaches a completion callback and returns the item.
func (it *Item[C]) WithCallback(cb Callback[C]) *Item[C] {
	it.callback = cb
	return it
}

// Context returns the caller-supplied context.
func (it *Item[C]) Context() C {
	return it.context
}

// takeRequest removes and returns the request.
//
// The request is guaranteed present for any item reaching a Service; a
// missing request means the item was constructed without one or already
// consumed, which is a contract violation by the embedding code.
func (it *Item[C]) takeRequest() *event.Request {
	req := it.request
	if req == nil {
		panic("dispatch: item request already consumed or never set")
	}
	it.request = nil
	return req
}

// takeCallback removes and returns the callback, or nil if none was set.
// Ownership transfers to the caller, so the callback can fire at most once.
func (it *Item[C]) takeCallback() Callback[C] {
	cb := it.callback
	it.callback = nil
	return cb
}
