package module

import (
	"fmt"
	"sort"
)

// Registry maps event keys to handler factories.
//
// A Registry is immutable after Build returns. Get performs a plain map
// read, so the registry may be queried concurrently from any number of
// goroutines without locking.
type Registry struct {
	factories map[string]Factory
	owners    map[string]string // event key -> module name
}

// Build flattens the given modules into a registry.
// It fails if any module recorded a registration error or if two modules
// claim the same event key.
func Build(modules ...*Module) (*Registry, error) {
	r := &Registry{
		factories: make(map[string]Factory),
		owners:    make(map[string]string),
	}

	for _, m := range modules {
		if m == nil {
			continue
		}
		if err := m.err(); err != nil {
			return nil, err
		}
		for key, f := range m.factories {
			if owner, exists := r.owners[key]; exists {
				return nil, fmt.Errorf("event %s claimed by modules %s and %s: %w",
					key, owner, m.name, ErrDuplicateEvent)
			}
			r.factories[key] = f
			r.owners[key] = m.name
		}
	}

	return r, nil
}

// Get returns the factory registered for an event key.
func (r *Registry) Get(eventKey string) (Factory, bool) {
	f, ok := r.factories[eventKey]
	return f, ok
}

// Has returns true if a factory is registered for the event key.
func (r *Registry) Has(eventKey string) bool {
	_, ok := r.factories[eventKey]
	return ok
}

// Events returns all registered event keys, sorted.
func (r *Registry) Events() []string {
	keys := make([]string, 0, len(r.factories))
	for k := range r.factories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Owner returns the name of the module that registered an event key.
func (r *Registry) Owner(eventKey string) (string, bool) {
	name, ok := r.owners[eventKey]
	return name, ok
}

// Count returns the number of registered event keys.
func (r *Registry) Count() int {
	return len(r.factories)
}
