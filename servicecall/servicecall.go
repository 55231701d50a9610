// Package servicecall hosts the facade registry behind the generic
// service-call resolver. Facades are registered by name at process start; the
// registry is an explicit, enumerable map rather than a reflective lookup, so
// the set of callable services is always known.
package servicecall

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/waldt/humilis/layer"
)

// Errors reported by the registry.
var (
	// ErrUnsupportedService is returned when no facade is registered under
	// the requested service name.
	ErrUnsupportedService = errors.New("servicecall: unsupported service")
	// ErrDuplicateService is returned when a facade name is registered twice.
	ErrDuplicateService = errors.New("servicecall: duplicate service")
	// ErrUnknownMethod is returned by facades for method names they do not
	// implement.
	ErrUnknownMethod = errors.New("servicecall: unknown method")
)

// Facade exposes a remote service as named method invocations.
type Facade interface {
	// Name returns the service identifier the facade is registered under.
	Name() string
	// Call invokes the named method with positional and keyword arguments.
	Call(ctx context.Context, method string, args []any, kwargs map[string]any) (any, error)
}

// Factory constructs a facade from humilis configuration.
type Factory func(cfg *layer.Config) (Facade, error)

// Registry maps service names to facade factories. Populate it at startup;
// it is safe for concurrent reads afterwards.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty facade registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a facade factory under the given name.
func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateService, name)
	}
	r.factories[name] = f
	return nil
}

// Facade constructs the facade registered under name.
func (r *Registry) Facade(name string, cfg *layer.Config) (Facade, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedService, name)
	}
	return f(cfg)
}

// Services returns the sorted names of all registered facades.
func (r *Registry) Services() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
