// internal/secrets/secrets.go
//
// Vault-backed secret resolution.
//
// Context
// -------
// Config values may carry a `vault:` reference instead of a literal:
//
//	vault:secret/data/bodalink#db_password
//
// The part before `#` is a KV-v2 path, the part after it the key inside
// that secret.  The client wraps the HashiCorp Vault SDK with a small
// read-through cache so repeated references to the same path cost one
// round trip.  VAULT_ADDR and VAULT_TOKEN come from the environment, as
// the SDK expects.
//
// Notes
// -----
// • Deployments without Vault simply never use `vault:` references; the
//   client is only constructed on first use.
// • Oxford commas, two spaces after periods.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	vault "github.com/hashicorp/vault/api"
)

const refPrefix = "vault:"

// IsRef reports whether s is a `vault:` reference.
func IsRef(s string) bool { return strings.HasPrefix(s, refPrefix) }

// Client resolves `vault:` references.  Safe for concurrent use.
type Client struct {
	api   *vault.Client
	logFn func(string, ...any)

	mu    sync.RWMutex
	cache map[string]string // path#key → value
}

// New dials Vault using the SDK's environment configuration.
func New(_ context.Context, logFn func(string, ...any)) (*Client, error) {
	cfg := vault.DefaultConfig()
	api, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("secrets: vault client: %w", err)
	}
	if api.Token() == "" {
		return nil, errors.New("secrets: VAULT_TOKEN is not set")
	}
	if logFn == nil {
		logFn = func(string, ...any) {}
	}
	return &Client{api: api, logFn: logFn, cache: make(map[string]string)}, nil
}

// Resolve turns a `vault:` reference into its secret value.
func (c *Client) Resolve(ctx context.Context, ref string) (string, error) {
	path, key, err := splitRef(ref)
	if err != nil {
		return "", err
	}

	cacheKey := path + "#" + key
	c.mu.RLock()
	if val, ok := c.cache[cacheKey]; ok {
		c.mu.RUnlock()
		return val, nil
	}
	c.mu.RUnlock()

	sec, err := c.api.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return "", fmt.Errorf("secrets: read %s: %w", path, err)
	}
	if sec == nil || sec.Data == nil {
		return "", fmt.Errorf("secrets: %s not found", path)
	}

	// KV-v2 nests the payload under "data"; fall back for KV-v1 mounts.
	data := sec.Data
	if inner, ok := sec.Data["data"].(map[string]interface{}); ok {
		data = inner
	}
	val, ok := data[key].(string)
	if !ok {
		return "", fmt.Errorf("secrets: %s has no string key %q", path, key)
	}

	c.mu.Lock()
	c.cache[cacheKey] = val
	c.mu.Unlock()

	c.logFn("secret resolved from %s", path)
	return val, nil
}

// splitRef parses "vault:<path>#<key>".
func splitRef(ref string) (path, key string, err error) {
	body := strings.TrimPrefix(ref, refPrefix)
	path, key, ok := strings.Cut(body, "#")
	if !ok || path == "" || key == "" {
		return "", "", fmt.Errorf("secrets: malformed reference %q", ref)
	}
	return path, key, nil
}
