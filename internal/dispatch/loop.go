package dispatch

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dshills/flowline/internal/module"
)

// Loop is the background consumer of the dispatch queue. It dequeues items
// in FIFO order and spawns one independent goroutine per item, so handler
// bodies for separate items may execute in overlapping time windows.
//
// A Loop runs once: Run consumes the receiver until the producer side is
// closed and the queue drains, then waits for in-flight tasks and returns.
type Loop[C any] struct {
	registry *module.Registry
	rx       *Receiver[C]
	cfg      config

	started atomic.Bool
	tasks   sync.WaitGroup

	// Stats
	dequeued atomic.Uint64
}

// NewLoop creates a loop over the registry and the queue's consuming half.
func NewLoop[C any](reg *module.Registry, rx *Receiver[C], opts ...Option) *Loop[C] {
	l := &Loop[C]{
		registry: reg,
		rx:       rx,
		cfg:      defaultConfig(),
	}
	for _, opt := range opts {
		opt(&l.cfg)
	}
	return l
}

// Run drains the queue until it is closed and empty, spawning a dispatch
// task per item without waiting for it to finish. Once the queue closes,
// Run waits for the spawned tasks to complete and returns nil.
//
// ctx is passed to the spawned handlers; cancelling it does not stop the
// loop or abort in-flight tasks. The loop terminates only through
// Sender.Close. Run may be called once; further calls return
// ErrAlreadyRunning.
func (l *Loop[C]) Run(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	for item := range l.rx.C() {
		l.dequeued.Add(1)

		svc := newService[C](l.registry, l.cfg)
		l.tasks.Add(1)
		go func(it *Item[C]) {
			defer l.tasks.Done()
			svc.Call(ctx, it)
		}(item)
	}

	l.tasks.Wait()
	return nil
}

// Dequeued returns the number of items the loop has pulled off the queue.
func (l *Loop[C]) Dequeued() uint64 {
	return l.dequeued.Load()
}
