// Package reference resolves the declarative references embedded in layer
// configuration: fields whose value is computed by a named resolver (fetch a
// secret, upload a file, build a deployment package, look up a deployed
// resource) rather than read literally. The registry routes each declaration
// to its resolver and normalizes every failure into a typed, identity-carrying
// error.
package reference

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/waldt/humilis/artifact"
	"github.com/waldt/humilis/layer"
	"github.com/waldt/humilis/packaging"
	"github.com/waldt/humilis/secrets"
	"github.com/waldt/humilis/servicecall"
	"github.com/waldt/humilis/stack"
)

// Declaration is a reference as it appears in configuration: a resolver type
// plus resolver-specific named arguments. Immutable once read.
type Declaration struct {
	Type string `yaml:"ref" json:"ref"`
	Args Args   `yaml:"args" json:"args"`
}

// Resolver evaluates one kind of reference to a plain value.
type Resolver interface {
	// Name returns the reference type the resolver handles.
	Name() string
	// Resolve evaluates the reference for the given layer.
	Resolve(ctx context.Context, l *layer.Layer, cfg *layer.Config, args Args) (any, error)
}

// Deps are the external collaborators the built-in resolvers compose.
type Deps struct {
	Secrets  secrets.Store
	Uploader artifact.Uploader
	Stacks   stack.Engine
	Services *servicecall.Registry
	Builder  *packaging.Builder
}

// Registry maps reference-type names to resolvers. Built-ins are registered
// at construction; external plugins may Register before resolution begins.
// Once populated the registry is read-only and safe for concurrent Resolve
// calls.
type Registry struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	resolvers map[string]Resolver
}

// NewRegistry creates a registry pre-loaded with the built-in resolvers.
// A nil logger falls back to slog.Default.
func NewRegistry(logger *slog.Logger, deps Deps) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		logger:    logger,
		resolvers: make(map[string]Resolver),
	}

	fileRes := &fileResolver{uploader: deps.Uploader}
	builtins := []Resolver{
		&secretResolver{store: deps.Secrets},
		fileRes,
		&lambdaResolver{builder: deps.Builder, file: fileRes},
		&layerResolver{engine: deps.Stacks},
		&outputResolver{engine: deps.Stacks},
		&serviceResolver{services: deps.Services},
	}
	for _, res := range builtins {
		// Built-in names are unique by construction.
		r.resolvers[res.Name()] = res
	}
	return r
}

// Register adds an externally supplied resolver. Registering a name twice,
// including a built-in name, is an error.
func (r *Registry) Register(res Resolver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.resolvers[res.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateName, res.Name())
	}
	r.resolvers[res.Name()] = res
	return nil
}

// Types returns the sorted names of all registered reference types.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.resolvers))
	for name := range r.resolvers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve evaluates a declaration to a plain value. An unregistered type
// fails with ErrUnknownType; any resolver failure is wrapped into a
// ResolutionError carrying the declaration's identity, so raw internal errors
// never escape unlabeled.
func (r *Registry) Resolve(ctx context.Context, l *layer.Layer, cfg *layer.Config, decl Declaration) (any, error) {
	r.mu.RLock()
	res, ok := r.resolvers[decl.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, decl.Type)
	}

	value, err := res.Resolve(ctx, l, cfg, decl.Args)
	if err != nil {
		return nil, &ResolutionError{Type: decl.Type, Args: decl.Args, Err: err}
	}
	return value, nil
}
