package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// Keyring reads secrets from the operating system keychain (Keychain on
// macOS, Secret Service on Linux, Credential Manager on Windows).
type Keyring struct{}

// NewKeyring creates a keychain-backed store.
func NewKeyring() *Keyring {
	return &Keyring{}
}

// Get implements Store. The (service, key) pair maps directly onto the
// keychain's service/user addressing.
func (k *Keyring) Get(_ context.Context, service, key string) (string, error) {
	val, err := keyring.Get(service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w: %s/%s", ErrNotFound, service, key)
		}
		return "", fmt.Errorf("secrets: keychain lookup %s/%s: %w", service, key, err)
	}
	return val, nil
}
