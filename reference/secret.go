package reference

import (
	"context"
	"fmt"

	"github.com/waldt/humilis/layer"
	"github.com/waldt/humilis/secrets"
)

// secretResolver looks up a credential by (service, key) in the secret
// store. It never caches: secrets may rotate between resolutions.
type secretResolver struct {
	store secrets.Store
}

func (r *secretResolver) Name() string { return "secret" }

func (r *secretResolver) Resolve(ctx context.Context, _ *layer.Layer, _ *layer.Config, args Args) (any, error) {
	service, err := args.String("service")
	if err != nil {
		return nil, err
	}
	key, err := args.String("key")
	if err != nil {
		return nil, err
	}

	value, err := r.store.Get(ctx, service, key)
	if err != nil {
		return nil, fmt.Errorf("secret %s/%s: %w", service, key, err)
	}
	return value, nil
}
