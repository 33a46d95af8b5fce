package dispatch

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dshills/flowline/internal/event"
	"github.com/dshills/flowline/internal/module"
)

// Dispatcher is the public entry point of the dispatch core.
//
// AsyncSend enqueues items for the background Loop; SyncSend resolves an
// item immediately on the calling goroutine. Both paths route through the
// same immutable registry but provide no relative ordering guarantee.
type Dispatcher[C any] struct {
	registry *module.Registry
	cfg      config

	sender *Sender[C]

	mu       sync.Mutex
	receiver *Receiver[C]

	// Stats
	asyncSent atomic.Uint64
	syncSent  atomic.Uint64
	dropped   atomic.Uint64
}

// New creates a dispatcher over the given registry.
func New[C any](reg *module.Registry, opts ...Option) *Dispatcher[C] {
	d := &Dispatcher[C]{
		registry: reg,
		cfg:      defaultConfig(),
	}
	for _, opt := range opts {
		opt(&d.cfg)
	}
	d.sender, d.receiver = newQueue[C](d.cfg.capacity, d.cfg.policy, &d.dropped)
	return d
}

// AsyncSend enqueues the item for the background loop and returns
// immediately. It never blocks. If the consuming side has already shut
// down, the item is silently dropped.
func (d *Dispatcher[C]) AsyncSend(item *Item[C]) {
	if item == nil {
		return
	}
	d.asyncSent.Add(1)
	d.sender.Send(item)
}

// SyncSend bypasses the queue: it constructs a fresh routing service,
// resolves the item on the calling goroutine, and returns the response.
// This path does not interleave with items sent via AsyncSend.
func (d *Dispatcher[C]) SyncSend(ctx context.Context, item *Item[C]) event.Response {
	d.syncSent.Add(1)
	svc := newService[C](d.registry, d.cfg)
	return svc.Call(ctx, item)
}

// Tx returns the producer handle for the queue. The handle is safe to share
// across goroutines, so multiple producers may enqueue concurrently.
func (d *Dispatcher[C]) Tx() *Sender[C] {
	return d.sender
}

// TakeReceiver hands ownership of the queue's consuming half to the caller,
// normally the Loop constructor. The receiver can be taken exactly once;
// a second call is a programmer error and panics.
func (d *Dispatcher[C]) TakeReceiver() *Receiver[C] {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.receiver == nil {
		panic("dispatch: receiver already taken")
	}
	rx := d.receiver
	d.receiver = nil
	return rx
}

// CloseSend shuts the producer side of the queue. Buffered items are still
// delivered; subsequent AsyncSend calls drop silently.
func (d *Dispatcher[C]) CloseSend() {
	d.sender.Close()
}

// Stats returns a snapshot of dispatcher counters. Values may be slightly
// inconsistent with each other while sends are in flight.
func (d *Dispatcher[C]) Stats() Stats {
	return Stats{
		AsyncSent: d.asyncSent.Load(),
		SyncSent:  d.syncSent.Load(),
		Dropped:   d.dropped.Load(),
	}
}

// Stats contains dispatcher counters.
type Stats struct {
	// AsyncSent is the number of AsyncSend calls, including dropped items.
	AsyncSent uint64

	// SyncSent is the number of SyncSend calls.
	SyncSent uint64

	// Dropped is the number of items discarded because the queue was closed
	// or a bounded queue overflowed.
	Dropped uint64
}
