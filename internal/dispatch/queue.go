package dispatch

import (
	"sync"
	"sync/atomic"
)

// OverflowPolicy selects what happens to new items when a bounded queue is
// at capacity.
type OverflowPolicy uint8

const (
	// DropNewest discards the incoming item.
	DropNewest OverflowPolicy = iota
	// DropOldest discards the item at the head of the queue to make room.
	DropOldest
)

// String returns a string representation of the policy.
func (p OverflowPolicy) String() string {
	switch p {
	case DropNewest:
		return "drop-newest"
	case DropOldest:
		return "drop-oldest"
	default:
		return "unknown"
	}
}

// Sender is the producer handle for the dispatch queue. It is safe for
// concurrent use by multiple goroutines; share it by reference.
type Sender[C any] struct {
	mu      sync.RWMutex
	closed  bool
	once    sync.Once
	in      chan *Item[C]
	dropped *atomic.Uint64
}

// Send enqueues an item. It never blocks waiting for queue space: on a full
// bounded queue the overflow policy applies, and after Close the item is
// silently dropped.
func (s *Sender[C]) Send(item *Item[C]) {
	if item == nil {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.dropped.Add(1)
		return
	}
	s.in <- item
}

// Close shuts the producer side. The consuming loop drains whatever is
// buffered and then terminates. Close is idempotent.
func (s *Sender[C]) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.in)
		s.mu.Unlock()
	})
}

// Receiver is the consuming half of the dispatch queue. Exactly one owner
// may hold it; it is handed off by Dispatcher.TakeReceiver.
type Receiver[C any] struct {
	ch <-chan *Item[C]
}

// C returns the channel items are delivered on, in FIFO enqueue order.
// The channel is closed after the sender is closed and the queue drains.
func (r *Receiver[C]) C() <-chan *Item[C] {
	return r.ch
}

// Recv returns the next item, blocking until one is available.
// ok is false once the queue is closed and empty.
func (r *Receiver[C]) Recv() (item *Item[C], ok bool) {
	item, ok = <-r.ch
	return item, ok
}

// newQueue builds the queue pump connecting a Sender to a Receiver.
// capacity <= 0 means unbounded.
func newQueue[C any](capacity int, policy OverflowPolicy, dropped *atomic.Uint64) (*Sender[C], *Receiver[C]) {
	in := make(chan *Item[C])
	out := make(chan *Item[C])

	go func() {
		var buf []*Item[C]
		recv := in
		for {
			if recv == nil && len(buf) == 0 {
				close(out)
				return
			}

			var send chan *Item[C]
			var next *Item[C]
			if len(buf) > 0 {
				send = out
				next = buf[0]
			}

			select {
			case item, ok := <-recv:
				if !ok {
					recv = nil
					continue
				}
				if capacity > 0 && len(buf) >= capacity {
					dropped.Add(1)
					if policy == DropOldest {
						buf = append(buf[1:], item)
					}
					continue
				}
				buf = append(buf, item)
			case send <- next:
				buf[0] = nil
				buf = buf[1:]
			}
		}
	}()

	return &Sender[C]{in: in, dropped: dropped}, &Receiver[C]{ch: out}
}
