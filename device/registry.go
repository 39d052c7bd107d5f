package device

import (
	"fmt"
	"sync"
)

// Registry holds a named set of drivers. The zero value is not usable; use
// NewRegistry. A process normally uses the package-level default registry,
// but tests and embedders can build their own.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	drivers map[string]Driver
}

// NewRegistry returns an empty driver registry.
func NewRegistry() *Registry {
	return &Registry{drivers: make(map[string]Driver)}
}

// Register adds a driver under its Name. Registering a second driver with
// the same name is an error.
func (r *Registry) Register(d Driver) error {
	name := d.Name()
	if name == "" {
		return fmt.Errorf("driver has empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.drivers[name]; dup {
		return fmt.Errorf("driver %q already registered", name)
	}
	r.drivers[name] = d
	r.order = append(r.order, name)
	return nil
}

// Drivers returns the registered driver names in registration order.
func (r *Registry) Drivers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Lookup returns the driver registered under name.
func (r *Registry) Lookup(name string) (Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drivers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchDriver, name)
	}
	return d, nil
}

// defaultRegistry carries the built-in backends. The null driver is always
// first so that Open("") lands on a side-effect-free backend.
var defaultRegistry = NewRegistry()

func init() {
	_ = defaultRegistry.Register(NewNullDriver())
	_ = defaultRegistry.Register(NewDiskDriver(""))
}

// Default returns the process-wide registry holding the built-in drivers.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a driver to the default registry.
func Register(d Driver) error {
	return defaultRegistry.Register(d)
}

// Drivers returns the driver names in the default registry.
func Drivers() []string {
	return defaultRegistry.Drivers()
}
