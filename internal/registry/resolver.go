// internal/registry/resolver.go
//
// Token and subdomain resolution with lazy expiration.
//
// Context
// -------
// Both lookups walk the in-memory list for the first active match; when
// more than one active record shares a key the earliest in list order
// wins (Append prevents new duplicates, but rows inherited from older
// deployments may still collide).  Expiration is enforced here, lazily:
// the first lookup past AccessUntil flips IsActive off as an observable,
// persisted side effect and reports NotFound.
//
// ResolveByToken touches LastUsedAt on success and persists the touch
// fire-and-forget.  ResolveBySubdomain deliberately does not: subdomain
// hits come from every page view of every wedding guest, and LastUsedAt
// tracks the couple's own logins.
//
// All comparisons are UTC instant vs UTC instant.
package registry

import (
	"context"
	"time"

	"github.com/bodalink/bodalink/internal/client"
	"github.com/bodalink/bodalink/internal/metrics"
)

// ResolveByToken returns the active, non-expired record holding token,
// updating its LastUsedAt.  Returns ErrNotFound otherwise.
func (r *Registry) ResolveByToken(ctx context.Context, token string) (client.Record, error) {
	return r.resolve(ctx, func(rec *client.Record) bool {
		return rec.Token == token
	}, true)
}

// ResolveBySubdomain returns the active, non-expired record holding
// subdomain.  LastUsedAt is not touched.
func (r *Registry) ResolveBySubdomain(ctx context.Context, subdomain string) (client.Record, error) {
	return r.resolve(ctx, func(rec *client.Record) bool {
		return rec.Subdomain == subdomain
	}, false)
}

func (r *Registry) resolve(_ context.Context, match func(*client.Record) bool, touch bool) (client.Record, error) {
	now := time.Now().UTC()

	r.mu.Lock()
	var found *client.Record
	for i := range r.records {
		if rec := &r.records[i]; rec.IsActive && match(rec) {
			found = rec
			break
		}
	}
	if found == nil {
		r.mu.Unlock()
		metrics.ResolveMissesTotal.Inc()
		return client.Record{}, ErrNotFound
	}

	if found.Expired(now) {
		found.IsActive = false
		snap := r.snapshotLocked()
		r.mu.Unlock()

		metrics.ClientExpiredTotal.Inc()
		metrics.ResolveMissesTotal.Inc()
		r.updateActiveGauge()
		go r.persist(context.Background(), snap)
		return client.Record{}, ErrNotFound
	}

	var snap []client.Record
	if touch {
		found.LastUsedAt = &now
		snap = r.snapshotLocked()
	}
	cp := found.Clone()
	r.mu.Unlock()

	metrics.ResolveHitsTotal.Inc()
	if touch {
		go r.persist(context.Background(), snap)
	}
	return cp, nil
}
