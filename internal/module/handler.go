package module

import (
	"context"

	"github.com/dshills/flowline/internal/event"
)

// Handler processes a single event request.
type Handler interface {
	// Call executes the handler for one request.
	Call(ctx context.Context, req *event.Request) (event.Response, error)
}

// HandlerFunc is a function adapter for the Handler interface.
type HandlerFunc func(ctx context.Context, req *event.Request) (event.Response, error)

// Call implements Handler.Call.
func (f HandlerFunc) Call(ctx context.Context, req *event.Request) (event.Response, error) {
	return f(ctx, req)
}

// Factory constructs a Handler for one request. The id is the request's
// identifier, passed ahead of the request itself so factories can set up
// per-request state (tracing, scoped resources) before invocation.
type Factory interface {
	// NewHandler constructs a handler instance for the identified request.
	NewHandler(ctx context.Context, id string) (Handler, error)
}

// FactoryFunc is a function adapter for the Factory interface.
type FactoryFunc func(ctx context.Context, id string) (Handler, error)

// NewHandler implements Factory.NewHandler.
func (f FactoryFunc) NewHandler(ctx context.Context, id string) (Handler, error) {
	return f(ctx, id)
}

// StaticFactory wraps a Handler as a Factory that always returns it.
// Useful for stateless handlers that need no per-request construction.
func StaticFactory(h Handler) Factory {
	return FactoryFunc(func(ctx context.Context, id string) (Handler, error) {
		return h, nil
	})
}
