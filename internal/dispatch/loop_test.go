package dispatch

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dshills/flowline/internal/event"
	"github.com/dshills/flowline/internal/module"
)

func TestLoop_DrainsAllItems(t *testing.T) {
	reg := testRegistry(t)
	d := New[string](reg)
	loop := NewLoop(reg, d.TakeReceiver())

	const n = 50

	var mu sync.Mutex
	fired := make(map[string]int)

	for i := 0; i < n; i++ {
		id := fmt.Sprintf("item-%d", i)
		req := event.NewRequest("ping").WithID(id)
		d.AsyncSend(NewItem("", req).WithCallback(func(ctx string, resp event.Response) {
			mu.Lock()
			fired[id]++
			mu.Unlock()
		}))
	}

	done := make(chan error)
	go func() { done <- loop.Run(context.Background()) }()

	d.CloseSend()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not terminate after CloseSend")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != n {
		t.Fatalf("callbacks fired for %d items, want %d", len(fired), n)
	}
	for id, count := range fired {
		if count != 1 {
			t.Errorf("callback for %s fired %d times, want exactly 1", id, count)
		}
	}

	if loop.Dequeued() != n {
		t.Errorf("Dequeued() = %d, want %d", loop.Dequeued(), n)
	}
}

func TestLoop_ConcurrentHandlerExecution(t *testing.T) {
	// Two async items must be able to occupy their handler bodies in
	// overlapping time windows: each waits for the other to arrive.
	arrived := make(chan string, 2)
	release := make(chan struct{})

	slow := module.New("slow").HandleFunc("slow.op",
		func(ctx context.Context, req *event.Request) (event.Response, error) {
			arrived <- req.ID
			<-release
			return event.Success(), nil
		})

	reg, err := module.Build(slow)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	d := New[string](reg)
	loop := NewLoop(reg, d.TakeReceiver())
	go func() { _ = loop.Run(context.Background()) }()

	d.AsyncSend(NewItem("", event.NewRequest("slow.op").WithID("a")))
	d.AsyncSend(NewItem("", event.NewRequest("slow.op").WithID("b")))

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case id := <-arrived:
			seen[id] = true
		case <-time.After(5 * time.Second):
			t.Fatal("handlers did not overlap; loop is serializing dispatch tasks")
		}
	}
	if !seen["a"] || !seen["b"] {
		t.Errorf("both items should be in flight, saw %v", seen)
	}

	close(release)
	d.CloseSend()
}

func TestLoop_NoCrossPathOrdering(t *testing.T) {
	// An async item stuck in its handler must not delay a sync item.
	release := make(chan struct{})

	blocking := module.New("blocking").
		HandleFunc("block",
			func(ctx context.Context, req *event.Request) (event.Response, error) {
				<-release
				return event.Success(), nil
			}).
		HandleFunc("fast",
			func(ctx context.Context, req *event.Request) (event.Response, error) {
				return event.Success(), nil
			})

	reg, err := module.Build(blocking)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	d := New[string](reg)
	loop := NewLoop(reg, d.TakeReceiver())
	go func() { _ = loop.Run(context.Background()) }()

	asyncDone := make(chan struct{})
	d.AsyncSend(NewItem("", event.NewRequest("block")).
		WithCallback(func(ctx string, resp event.Response) { close(asyncDone) }))

	// B completes on the sync path while A is still blocked.
	resp := d.SyncSend(context.Background(), NewItem("", event.NewRequest("fast")))
	if !resp.IsOK() {
		t.Fatalf("SyncSend() status = %v, want ok", resp.Status)
	}

	select {
	case <-asyncDone:
		t.Fatal("async item completed while its handler was blocked")
	default:
	}

	close(release)
	select {
	case <-asyncDone:
	case <-time.After(5 * time.Second):
		t.Fatal("async callback never fired after release")
	}

	d.CloseSend()
}

func TestLoop_RunTwice(t *testing.T) {
	reg := testRegistry(t)
	d := New[string](reg)
	loop := NewLoop(reg, d.TakeReceiver())

	done := make(chan error)
	go func() { done <- loop.Run(context.Background()) }()

	// Give the first Run a chance to start, then try again.
	time.Sleep(10 * time.Millisecond)
	if err := loop.Run(context.Background()); err != ErrAlreadyRunning {
		t.Errorf("second Run() error = %v, want ErrAlreadyRunning", err)
	}

	d.CloseSend()
	if err := <-done; err != nil {
		t.Errorf("first Run() error = %v", err)
	}

	// A completed loop does not restart either.
	if err := loop.Run(context.Background()); err != ErrAlreadyRunning {
		t.Errorf("Run() after completion error = %v, want ErrAlreadyRunning", err)
	}
}

func TestLoop_CallbackFiresOnFailureToo(t *testing.T) {
	reg := testRegistry(t)
	d := New[string](reg)
	loop := NewLoop(reg, d.TakeReceiver())

	var mu sync.Mutex
	var responses []event.Response

	record := func(ctx string, resp event.Response) {
		mu.Lock()
		responses = append(responses, resp)
		mu.Unlock()
	}

	d.AsyncSend(NewItem("", event.NewRequest("ping")).WithCallback(record))
	d.AsyncSend(NewItem("", event.NewRequest("unregistered")).WithCallback(record))
	d.CloseSend()

	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(responses) != 2 {
		t.Fatalf("got %d callback invocations, want 2", len(responses))
	}

	var ok, failed int
	for _, resp := range responses {
		if resp.IsOK() {
			ok++
		} else {
			failed++
		}
	}
	if ok != 1 || failed != 1 {
		t.Errorf("outcomes ok=%d failed=%d, want 1 and 1", ok, failed)
	}
}
