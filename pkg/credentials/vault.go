package credentials

import (
	"context"
	"fmt"
	"strings"
	"sync"

	vault "github.com/hashicorp/vault/api"
	"github.com/pkg/errors"
)

const SchemeVault = "vault"

// Vault reads secrets from a KV secrets engine. The first path segment of
// a reference is the mount, the rest the secret path; the key is required.
// The client is configured from the standard VAULT_* environment unless
// Client is set.
type Vault struct {
	Client *vault.Client
	// Engine is kv-v1 or kv-v2 (default).
	Engine string

	once    sync.Once
	initErr error
}

func (v *Vault) Scheme() string {
	return SchemeVault
}

func (v *Vault) client() (*vault.Client, error) {
	v.once.Do(func() {
		if v.Client != nil {
			return
		}
		v.Client, v.initErr = vault.NewClient(vault.DefaultConfig())
		if v.initErr != nil {
			v.initErr = errors.Wrap(v.initErr, "failed to create the Vault client")
		}
	})
	return v.Client, v.initErr
}

func (v *Vault) Fetch(ctx context.Context, ref Reference) (string, error) {
	if ref.Key == "" {
		return "", fmt.Errorf("vault reference requires a #key")
	}
	mount, path, ok := strings.Cut(strings.Trim(ref.Path, "/"), "/")
	if !ok || path == "" {
		return "", fmt.Errorf("expected <mount>/<path>, got %q", ref.Path)
	}

	client, err := v.client()
	if err != nil {
		return "", err
	}

	var data map[string]any
	switch v.Engine {
	case "kv", "kv-v1", "kvv1":
		secret, err := client.KVv1(mount).Get(ctx, path)
		if err != nil {
			return "", errors.Wrap(err, "failed to get Vault kv-v1 secret")
		}
		data = secret.Data
	case "", "kv2", "kv-v2", "kvv2":
		secret, err := client.KVv2(mount).Get(ctx, path)
		if err != nil {
			return "", errors.Wrap(err, "failed to get Vault kv-v2 secret")
		}
		data = secret.Data
	default:
		return "", fmt.Errorf("unsupported Vault engine %q", v.Engine)
	}

	value, ok := data[ref.Key]
	if !ok {
		return "", fmt.Errorf("key %q not found in %s", ref.Key, ref.Path)
	}
	return fmt.Sprint(value), nil
}
