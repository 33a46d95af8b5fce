package module

import (
	"context"
	"fmt"
	"sort"

	"github.com/dshills/flowline/internal/event"
)

// Module is a named group of event handler registrations.
// Modules are assembled by the host at startup and flattened into a Registry.
type Module struct {
	name      string
	factories map[string]Factory
	errs      []error
}

// New creates an empty module with the given name.
func New(name string) *Module {
	return &Module{
		name:      name,
		factories: make(map[string]Factory),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return m.name
}

// Handle registers a factory for an event key. Registering the same key
// twice within a module is a defect reported when the registry is built.
func (m *Module) Handle(eventKey string, f Factory) *Module {
	if eventKey == "" {
		m.errs = append(m.errs, fmt.Errorf("module %s: %w", m.name, ErrEmptyEventKey))
		return m
	}
	if f == nil {
		m.errs = append(m.errs, fmt.Errorf("module %s: event %s: %w", m.name, eventKey, ErrNilFactory))
		return m
	}
	if _, exists := m.factories[eventKey]; exists {
		m.errs = append(m.errs, fmt.Errorf("module %s: event %s: %w", m.name, eventKey, ErrDuplicateEvent))
		return m
	}
	m.factories[eventKey] = f
	return m
}

// HandleFunc registers a stateless handler function for an event key.
func (m *Module) HandleFunc(eventKey string, fn func(ctx context.Context, req *event.Request) (event.Response, error)) *Module {
	return m.Handle(eventKey, StaticFactory(HandlerFunc(fn)))
}

// Events returns the event keys registered on this module, sorted.
func (m *Module) Events() []string {
	keys := make([]string, 0, len(m.factories))
	for k := range m.factories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// err returns the accumulated registration errors, if any.
func (m *Module) err() error {
	if len(m.errs) == 0 {
		return nil
	}
	return m.errs[0]
}
