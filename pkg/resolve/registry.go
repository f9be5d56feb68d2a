package resolve

import (
	"fmt"
	"sort"
	"sync"
)

// Capability defines the signature for a named function callable from
// expressions. Arguments arrive fully resolved, in declaration order.
type Capability func(args ...any) (any, error)

// Registry manages the capabilities available to expressions.
type Registry struct {
	mu           sync.RWMutex
	capabilities map[string]Capability
}

// NewRegistry creates a registry preloaded with the builtin capabilities.
func NewRegistry() *Registry {
	r := &Registry{
		capabilities: make(map[string]Capability, len(builtins)),
	}
	for name, fn := range builtins {
		r.capabilities[name] = fn
	}
	return r
}

// Register adds a capability to the registry.
// If a capability with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn Capability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.capabilities[name] = fn
}

// Lookup returns the capability registered under name.
func (r *Registry) Lookup(name string) (Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.capabilities[name]
	return fn, ok
}

// Invoke looks up a capability by name and calls it.
// Returns an error if the capability is not found.
func (r *Registry) Invoke(name string, args ...any) (any, error) {
	fn, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("capability not found: %s", name)
	}
	return fn(args...)
}

// Names lists the registered capability names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.capabilities))
	for name := range r.capabilities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
