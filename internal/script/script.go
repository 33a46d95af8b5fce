package script

import (
	"context"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/flowline/internal/event"
	"github.com/dshills/flowline/internal/module"
)

// Script is a loaded Lua source exposing event handlers.
type Script struct {
	name string

	mu       sync.Mutex
	state    *lua.LState
	closed   bool
	handlers map[string]*lua.LFunction
}

// Load reads and evaluates a Lua file and collects its handlers table.
func Load(name, path string) (*Script, error) {
	L := lua.NewState()
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	return collect(name, L)
}

// LoadString evaluates Lua source held in memory. Used by tests and hosts
// that embed scripts.
func LoadString(name, source string) (*Script, error) {
	L := lua.NewState()
	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	return collect(name, L)
}

// collect pulls the handlers table out of an evaluated state.
func collect(name string, L *lua.LState) (*Script, error) {
	tbl, ok := L.GetGlobal("handlers").(*lua.LTable)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("script %s: %w", name, ErrNoHandlers)
	}

	handlers := make(map[string]*lua.LFunction)
	tbl.ForEach(func(k, v lua.LValue) {
		key, kok := k.(lua.LString)
		fn, vok := v.(*lua.LFunction)
		if kok && vok {
			handlers[string(key)] = fn
		}
	})

	if len(handlers) == 0 {
		L.Close()
		return nil, fmt.Errorf("script %s: %w", name, ErrNoHandlers)
	}

	return &Script{name: name, state: L, handlers: handlers}, nil
}

// Name returns the script name.
func (s *Script) Name() string {
	return s.name
}

// Module builds a dispatch module exposing one factory per scripted handler.
func (s *Script) Module() *module.Module {
	m := module.New(s.name)
	for key, fn := range s.handlers {
		m.Handle(key, module.StaticFactory(&scriptHandler{script: s, eventKey: key, fn: fn}))
	}
	return m
}

// Close releases the Lua state. Handlers invoked after Close fail with
// ErrClosed.
func (s *Script) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.state.Close()
}

// invoke runs one scripted handler. LState access is serialized.
func (s *Script) invoke(fn *lua.LFunction, id string, payload event.Payload) (event.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return event.Response{}, ErrClosed
	}

	L := s.state
	L.Push(fn)
	L.Push(lua.LString(id))
	L.Push(lua.LString(payload.String()))

	if err := L.PCall(2, 2, nil); err != nil {
		return event.Response{}, fmt.Errorf("script %s: %w", s.name, err)
	}

	errv := L.Get(-1)
	retv := L.Get(-2)
	L.Pop(2)

	if msg, ok := errv.(lua.LString); ok {
		return event.Response{}, fmt.Errorf("script %s: %s", s.name, string(msg))
	}

	switch ret := retv.(type) {
	case lua.LString:
		return event.SuccessWithPayload(event.Payload(ret)), nil
	case *lua.LNilType:
		return event.Success(), nil
	default:
		return event.Response{}, fmt.Errorf("script %s: handler returned %s, want string or nil", s.name, retv.Type())
	}
}

// scriptHandler adapts one Lua function to the module.Handler interface.
type scriptHandler struct {
	script   *Script
	eventKey string
	fn       *lua.LFunction
}

// Call implements module.Handler. The context is not propagated into Lua;
// scripted handlers run to completion once started.
func (h *scriptHandler) Call(ctx context.Context, req *event.Request) (event.Response, error) {
	return h.script.invoke(h.fn, req.ID, req.Payload)
}
