// Package secrets defines the secret-store boundary used by the secret
// reference resolver. Secrets are addressed by (service, key) pairs and are
// always fetched from the backing store, never cached, since they may rotate
// between resolutions.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned when the backing store has no secret for the
// requested (service, key) pair.
var ErrNotFound = errors.New("secrets: secret not found")

// Store retrieves plaintext secrets by service and key.
type Store interface {
	// Get returns the plaintext secret, or an error wrapping ErrNotFound
	// when the store reports no match.
	Get(ctx context.Context, service, key string) (string, error)
}

// Memory is an in-memory Store for tests and local development.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Set stores a secret for the given service and key.
func (m *Memory) Set(service, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[service+"\x00"+key] = value
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, service, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[service+"\x00"+key]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrNotFound, service, key)
	}
	return v, nil
}
