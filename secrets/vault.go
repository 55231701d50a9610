package secrets

import (
	"context"
	"errors"
	"fmt"

	vault "github.com/hashicorp/vault/api"
)

// Vault reads secrets from a HashiCorp Vault KV v2 mount. The service becomes
// the secret path under the mount and the key selects a field of the secret's
// data, so (service="github", key="token") reads {mount}/data/github field
// "token".
type Vault struct {
	client *vault.Client
	mount  string
}

// NewVault creates a Vault-backed store on the given KV v2 mount.
// An empty mount defaults to "secret".
func NewVault(client *vault.Client, mount string) *Vault {
	if mount == "" {
		mount = "secret"
	}
	return &Vault{client: client, mount: mount}
}

// Get implements Store.
func (v *Vault) Get(ctx context.Context, service, key string) (string, error) {
	secret, err := v.client.KVv2(v.mount).Get(ctx, service)
	if err != nil {
		if errors.Is(err, vault.ErrSecretNotFound) {
			return "", fmt.Errorf("%w: %s/%s", ErrNotFound, service, key)
		}
		return "", fmt.Errorf("secrets: vault read %s: %w", service, err)
	}
	val, ok := secret.Data[key]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrNotFound, service, key)
	}
	s, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("secrets: vault field %s/%s is not a string", service, key)
	}
	return s, nil
}
