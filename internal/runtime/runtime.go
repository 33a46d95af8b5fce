package runtime

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/flowline/internal/config"
	"github.com/dshills/flowline/internal/dispatch"
	"github.com/dshills/flowline/internal/event"
	"github.com/dshills/flowline/internal/log"
	"github.com/dshills/flowline/internal/module"
	"github.com/dshills/flowline/internal/script"
)

// Runtime hosts one dispatch subsystem. C is the caller context type
// round-tripped through completion callbacks.
type Runtime[C any] struct {
	registry   *module.Registry
	dispatcher *dispatch.Dispatcher[C]
	loop       *dispatch.Loop[C]
	scripts    []*script.Script
	logger     *slog.Logger

	started atomic.Bool
	group   *errgroup.Group
}

// New builds a runtime from configuration and the host's modules.
// Scripts named in the configuration are loaded and registered alongside
// the given modules; a duplicate event key across any of them fails Build.
func New[C any](cfg config.Config, modules ...*module.Module) (*Runtime[C], error) {
	logger := log.WithComponent("runtime")

	mods := make([]*module.Module, 0, len(modules)+len(cfg.Scripts))
	mods = append(mods, modules...)

	var scripts []*script.Script
	for _, sc := range cfg.Scripts {
		s, err := script.Load(sc.Name, sc.Path)
		if err != nil {
			closeScripts(scripts)
			return nil, err
		}
		scripts = append(scripts, s)
		mods = append(mods, s.Module())
		logger.Debug("loaded script module", "name", sc.Name, "path", sc.Path)
	}

	registry, err := module.Build(mods...)
	if err != nil {
		closeScripts(scripts)
		return nil, err
	}

	opts := []dispatch.Option{
		dispatch.WithCapacity(cfg.Queue.Capacity),
		dispatch.WithOverflowPolicy(overflowPolicy(cfg.Queue.Overflow)),
		dispatch.WithErrorHandler(func(req *event.Request, err error) {
			logger.Warn("dispatch failed", "request", req.String(), "error", err)
		}),
		dispatch.WithPanicHandler(func(req *event.Request, v any, stack []byte) {
			logger.Error("handler panic", "request", req.String(), "panic", v, "stack", string(stack))
		}),
	}

	d := dispatch.New[C](registry, opts...)
	loop := dispatch.NewLoop(registry, d.TakeReceiver(), opts...)

	return &Runtime[C]{
		registry:   registry,
		dispatcher: d,
		loop:       loop,
		scripts:    scripts,
		logger:     logger,
	}, nil
}

// Registry returns the immutable event-key registry.
func (r *Runtime[C]) Registry() *module.Registry {
	return r.registry
}

// Start launches the background dispatch loop. It returns immediately;
// the loop runs until Shutdown closes the producer side of the queue.
func (r *Runtime[C]) Start(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	r.group, _ = errgroup.WithContext(ctx)
	r.group.Go(func() error {
		r.logger.Info("dispatch loop started", "events", r.registry.Count())
		defer r.logger.Info("dispatch loop stopped")
		return r.loop.Run(ctx)
	})
	return nil
}

// Dispatch resolves an item synchronously on the calling goroutine.
func (r *Runtime[C]) Dispatch(ctx context.Context, item *dispatch.Item[C]) event.Response {
	return r.dispatcher.SyncSend(ctx, item)
}

// Post enqueues an item for the background loop, fire-and-forget.
// After Shutdown the item is silently dropped.
func (r *Runtime[C]) Post(item *dispatch.Item[C]) {
	r.dispatcher.AsyncSend(item)
}

// Tx returns the queue's producer handle for callers that enqueue directly.
func (r *Runtime[C]) Tx() *dispatch.Sender[C] {
	return r.dispatcher.Tx()
}

// Stats returns a snapshot of dispatcher counters.
func (r *Runtime[C]) Stats() dispatch.Stats {
	return r.dispatcher.Stats()
}

// Shutdown closes the producer side, waits for the loop to drain and for
// in-flight dispatch tasks to finish, and releases script states.
func (r *Runtime[C]) Shutdown() error {
	r.dispatcher.CloseSend()

	var err error
	if r.group != nil {
		err = r.group.Wait()
	}
	closeScripts(r.scripts)
	return err
}

// overflowPolicy maps a validated config name to the dispatch policy.
func overflowPolicy(name string) dispatch.OverflowPolicy {
	if name == config.OverflowDropOldest {
		return dispatch.DropOldest
	}
	return dispatch.DropNewest
}

func closeScripts(scripts []*script.Script) {
	for _, s := range scripts {
		s.Close()
	}
}
