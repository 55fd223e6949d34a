package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Module is the interface that bundles of components implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds all registered components for an engine.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Component
}

// New creates a Registry and registers every given module into it.
func New(modules ...Module) *Registry {
	r := &Registry{
		components: make(map[string]Component),
	}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Register registers a component under the given name. Registering the same
// name twice is a programmer error and panics.
func (r *Registry) Register(name string, c Component) {
	if c == nil {
		panic(fmt.Sprintf("component '%s' is nil", name))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.components[name]; exists {
		panic(fmt.Sprintf("component with name '%s' already registered", name))
	}
	slog.Debug("Registering component.", "name", name)
	r.components[name] = c
}

// RegisterFunc is shorthand for Register(name, Func(fn)).
func (r *Registry) RegisterFunc(name string, fn Func) {
	r.Register(name, fn)
}

// Lookup returns the component registered under name.
func (r *Registry) Lookup(name string) (Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.components[name]
	return c, ok
}

// Names returns the registered component names in ascending order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.components)
}
