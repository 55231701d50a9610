// Package stack is the boundary to the deployment engine's stack store. The
// layer and output resolvers look up resources and outputs of already-deployed
// layers through the Engine interface; the canonical stack name ties a layer
// to its deployed stack.
package stack

import "context"

// Resource is a resource deployed inside a stack.
type Resource struct {
	LogicalID  string
	PhysicalID string
	Type       string
}

// Output is a named output value produced by a deployed stack.
type Output struct {
	Key   string
	Value string
}

// Engine queries deployed stacks. Lookups return a slice to mirror the
// engine's list-shaped responses; an empty slice means "not present".
type Engine interface {
	StackResource(ctx context.Context, stackName, logicalID string) ([]Resource, error)
	StackResources(ctx context.Context, stackName string) ([]Resource, error)
	StackOutput(ctx context.Context, stackName, outputName string) ([]Output, error)
	StackOutputs(ctx context.Context, stackName string) ([]Output, error)
}

// Name derives the canonical stack name for a layer:
// {env}-{layer} or {env}-{layer}-{stage} when the environment is staged.
func Name(envName, layerName, stage string) string {
	name := envName + "-" + layerName
	if stage != "" {
		name += "-" + stage
	}
	return name
}
