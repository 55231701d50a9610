package stack

import (
	"context"
	"sync"
)

// Fake is an in-memory Engine for tests and offline runs.
type Fake struct {
	mu        sync.RWMutex
	resources map[string][]Resource // stack name -> resources
	outputs   map[string][]Output   // stack name -> outputs
}

// NewFake creates an empty in-memory engine.
func NewFake() *Fake {
	return &Fake{
		resources: make(map[string][]Resource),
		outputs:   make(map[string][]Output),
	}
}

// AddResource registers a resource under the given stack name.
func (f *Fake) AddResource(stackName string, r Resource) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resources[stackName] = append(f.resources[stackName], r)
}

// AddOutput registers an output under the given stack name.
func (f *Fake) AddOutput(stackName string, o Output) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outputs[stackName] = append(f.outputs[stackName], o)
}

// StackResource implements Engine.
func (f *Fake) StackResource(_ context.Context, stackName, logicalID string) ([]Resource, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var found []Resource
	for _, r := range f.resources[stackName] {
		if r.LogicalID == logicalID {
			found = append(found, r)
		}
	}
	return found, nil
}

// StackResources implements Engine.
func (f *Fake) StackResources(_ context.Context, stackName string) ([]Resource, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]Resource(nil), f.resources[stackName]...), nil
}

// StackOutput implements Engine.
func (f *Fake) StackOutput(_ context.Context, stackName, outputName string) ([]Output, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var found []Output
	for _, o := range f.outputs[stackName] {
		if o.Key == outputName {
			found = append(found, o)
		}
	}
	return found, nil
}

// StackOutputs implements Engine.
func (f *Fake) StackOutputs(_ context.Context, stackName string) ([]Output, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]Output(nil), f.outputs[stackName]...), nil
}
