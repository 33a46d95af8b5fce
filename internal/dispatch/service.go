package dispatch

import (
	"context"
	"runtime/debug"

	"github.com/dshills/flowline/internal/event"
	"github.com/dshills/flowline/internal/module"
)

// PanicHandler is called when a handler or factory panics during routing.
// It receives the request being resolved, the panic value, and the stack.
type PanicHandler func(req *event.Request, panicValue any, stack []byte)

// ErrorHandler is called when routing fails: the event key is unregistered,
// the factory fails, or the handler returns an error.
type ErrorHandler func(req *event.Request, err error)

// defaultPanicHandler is a no-op panic handler.
func defaultPanicHandler(req *event.Request, panicValue any, stack []byte) {}

// defaultErrorHandler is a no-op error handler.
func defaultErrorHandler(req *event.Request, err error) {}

// config holds the settings shared by Dispatcher, Loop, and Service.
type config struct {
	capacity     int
	policy       OverflowPolicy
	panicHandler PanicHandler
	errorHandler ErrorHandler
}

func defaultConfig() config {
	return config{
		panicHandler: defaultPanicHandler,
		errorHandler: defaultErrorHandler,
	}
}

// Option configures a Dispatcher, Loop, or Service.
type Option func(*config)

// WithCapacity bounds the async queue. Zero or negative means unbounded.
func WithCapacity(n int) Option {
	return func(c *config) {
		c.capacity = n
	}
}

// WithOverflowPolicy selects the overflow policy for a bounded queue.
func WithOverflowPolicy(p OverflowPolicy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithPanicHandler sets the hook invoked when a handler panics.
func WithPanicHandler(h PanicHandler) Option {
	return func(c *config) {
		if h != nil {
			c.panicHandler = h
		}
	}
}

// WithErrorHandler sets the hook invoked when routing fails.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *config) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// Service resolves one item to a response: it consumes the item's request,
// selects a handler through the registry, runs the two-phase factory
// protocol, and fires the item's callback exactly once.
//
// A Service is cheap to construct; the dispatcher and the loop build a fresh
// one per dispatch.
type Service[C any] struct {
	registry *module.Registry
	cfg      config
}

// NewService creates a routing service over the given registry.
func NewService[C any](reg *module.Registry, opts ...Option) *Service[C] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newService[C](reg, cfg)
}

func newService[C any](reg *module.Registry, cfg config) *Service[C] {
	return &Service[C]{registry: reg, cfg: cfg}
}

// Call resolves the item and returns its response. It never returns an
// error: routing misses, factory failures, handler errors, and handler
// panics are all coerced to error responses.
//
// If the item carries a callback, it is invoked exactly once with a clone of
// the response before Call returns; the original is returned to the caller.
func (s *Service[C]) Call(ctx context.Context, item *Item[C]) event.Response {
	req := item.takeRequest()

	resp := s.route(ctx, req)

	if cb := item.takeCallback(); cb != nil {
		cb(item.Context(), resp.Clone())
	}

	return resp
}

// route selects and runs the handler for one request.
func (s *Service[C]) route(ctx context.Context, req *event.Request) (resp event.Response) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			resp = event.ResponseFromError(event.InternalErrorf("panic resolving %s: %v", req, r))

			// Protect the hook; a panicking panic handler must not
			// escape into the dispatch loop.
			func() {
				defer func() { _ = recover() }()
				s.cfg.panicHandler(req, r, stack)
			}()
		}
	}()

	factory, ok := s.registry.Get(req.Event)
	if !ok {
		err := event.InternalErrorf("no handler for %s (id=%s)", req.Event, req.ID)
		s.cfg.errorHandler(req, err)
		return event.ResponseFromError(err)
	}

	handler, err := factory.NewHandler(ctx, req.ID)
	if err != nil {
		werr := event.HandlerError(err)
		s.cfg.errorHandler(req, werr)
		return event.ResponseFromError(werr)
	}

	resp, err = handler.Call(ctx, req)
	if err != nil {
		werr := event.HandlerError(err)
		s.cfg.errorHandler(req, werr)
		return event.ResponseFromError(werr)
	}

	return resp
}
