package reference

import (
	"context"
	"fmt"

	"github.com/waldt/humilis/layer"
	"github.com/waldt/humilis/servicecall"
)

// serviceResolver invokes an arbitrary remote-service facade method and
// extracts a field from its response. The catch-all escape hatch for values
// no dedicated resolver computes.
type serviceResolver struct {
	services *servicecall.Registry
}

func (r *serviceResolver) Name() string { return "service" }

func (r *serviceResolver) Resolve(ctx context.Context, _ *layer.Layer, cfg *layer.Config, args Args) (any, error) {
	service, err := args.String("service")
	if err != nil {
		return nil, err
	}
	call, err := args.Map("call")
	if err != nil {
		return nil, err
	}
	method, ok := call["method"].(string)
	if !ok || method == "" {
		return nil, &MissingArgumentError{Argument: "call.method"}
	}
	posArgs, _ := call["args"].([]any)
	kwargs, _ := call["kwargs"].(map[string]any)

	outputAttribute, err := args.StringOpt("output_attribute")
	if err != nil {
		return nil, err
	}
	outputKey, err := args.StringOpt("output_key")
	if err != nil {
		return nil, err
	}

	facade, err := r.services.Facade(service, cfg)
	if err != nil {
		return nil, err
	}

	result, err := facade.Call(ctx, method, posArgs, kwargs)
	if err != nil {
		return nil, fmt.Errorf("call %s.%s: %w", service, method, err)
	}

	// Sequence results collapse to their first element; the rule lives in
	// servicecall.Normalize and only there.
	return servicecall.Extract(servicecall.Normalize(result), outputAttribute, outputKey)
}
