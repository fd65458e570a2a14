// internal/cache/redis.go
//
// Durable local cache for the client list.
//
// Context
// -------
// The registry keeps a serialized copy of the full client list in one
// Redis key, `wedding-clients`.  When the control-plane database is
// unreachable the platform runs off this slot instead; the slot has no
// TTL because stale clients beat no clients in degraded mode.
//
// Notes
// -----
// • Values are the same JSON shape the records use everywhere else.
// • An absent slot is a miss (ErrMiss), not a failure.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bodalink/bodalink/internal/client"
)

const clientsKey = "wedding-clients"

// ErrMiss is returned when the clients slot has never been written.
var ErrMiss = errors.New("cache: clients slot empty")

// Redis is the local cache collaborator.  Safe for concurrent use.
type Redis struct {
	client *redis.Client
}

// NewRedis dials addr and returns the cache.  The connection is lazy;
// use Ping to fail fast at boot when desired.
func NewRedis(addr, password string, db int) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Redis{client: rdb}
}

// LoadClients reads and decodes the clients slot.
func (c *Redis) LoadClients(ctx context.Context) ([]client.Record, error) {
	raw, err := c.client.Get(ctx, clientsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache: load clients: %w", err)
	}

	var recs []client.Record
	if err := json.Unmarshal(raw, &recs); err != nil {
		// A corrupt slot is treated as absent so the registry can fall
		// through to the seed instead of crashing the load chain.
		return nil, fmt.Errorf("%w: corrupt payload: %v", ErrMiss, err)
	}
	return recs, nil
}

// SaveClients serializes recs into the clients slot, replacing whatever
// was there.  No TTL; the slot lives until the next save.
func (c *Redis) SaveClients(ctx context.Context, recs []client.Record) error {
	raw, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("cache: encode clients: %w", err)
	}
	if err := c.client.Set(ctx, clientsKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("cache: save clients: %w", err)
	}
	return nil
}

// Ping verifies connectivity, with a short deadline for boot checks.
func (c *Redis) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.client.Ping(ctx).Err()
}
