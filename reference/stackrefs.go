package reference

import (
	"context"
	"fmt"

	"github.com/waldt/humilis/layer"
	"github.com/waldt/humilis/stack"
)

// layerResolver resolves the physical ID of a named resource inside an
// already-deployed layer's stack.
type layerResolver struct {
	engine stack.Engine
}

func (r *layerResolver) Name() string { return "layer" }

func (r *layerResolver) Resolve(ctx context.Context, l *layer.Layer, _ *layer.Config, args Args) (any, error) {
	layerName, err := args.String("layer_name")
	if err != nil {
		return nil, err
	}
	resourceName, err := args.String("resource_name")
	if err != nil {
		return nil, err
	}

	stackName := stack.Name(l.EnvName, layerName, l.EnvStage)
	found, err := r.engine.StackResource(ctx, stackName, resourceName)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		all, err := r.engine.StackResources(ctx, stackName)
		if err != nil {
			return nil, fmt.Errorf("list resources of stack %s: %w", stackName, err)
		}
		available := make([]string, 0, len(all))
		for _, res := range all {
			available = append(available, res.LogicalID)
		}
		return nil, &NotFoundError{
			Kind:      "resource",
			Name:      resourceName,
			StackName: stackName,
			Available: available,
		}
	}
	return found[0].PhysicalID, nil
}

// outputResolver resolves a named output value produced by an
// already-deployed layer's stack.
type outputResolver struct {
	engine stack.Engine
}

func (r *outputResolver) Name() string { return "output" }

func (r *outputResolver) Resolve(ctx context.Context, l *layer.Layer, _ *layer.Config, args Args) (any, error) {
	layerName, err := args.String("layer_name")
	if err != nil {
		return nil, err
	}
	outputName, err := args.String("output_name")
	if err != nil {
		return nil, err
	}

	stackName := stack.Name(l.EnvName, layerName, l.EnvStage)
	found, err := r.engine.StackOutput(ctx, stackName, outputName)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		all, err := r.engine.StackOutputs(ctx, stackName)
		if err != nil {
			return nil, fmt.Errorf("list outputs of stack %s: %w", stackName, err)
		}
		available := make([]string, 0, len(all))
		for _, o := range all {
			available = append(available, o.Key)
		}
		return nil, &NotFoundError{
			Kind:      "output",
			Name:      outputName,
			StackName: stackName,
			Available: available,
		}
	}
	return found[0].Value, nil
}
