// internal/registry/registry.go
//
// Client directory: the authoritative in-process list of tenant records.
//
// Context
// -------
// The Registry owns the client list and its two-tier persistence: the
// control-plane MySQL `clients` table is the shared source of truth, and
// one Redis slot keeps a serialized copy so the platform keeps serving
// when the database is unreachable.  The load chain is remote → local
// cache → built-in seed, and it never fails: worst case the platform
// runs the demo sites.
//
// The Registry is constructed once at boot and injected into everything
// that needs it.  Load is a single awaited initialization step, collapsed
// through singleflight so concurrent callers share one fetch instead of
// racing a background sync against first reads.
//
// Writes are last-writer-wins.  The platform assumes a single admin and
// a single process; a multi-instance deployment would need row versioning
// on the remote store before this assumption can be relaxed.
//
// Notes
// -----
// • Remote failures degrade the store to local-cache-only mode silently.
//   That is deliberate: the condition is logged and counted, never
//   surfaced to visitors.
// • Oxford commas, two spaces after periods.
package registry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/bodalink/bodalink/internal/client"
	"github.com/bodalink/bodalink/internal/metrics"
	"github.com/bodalink/bodalink/internal/storage"
)

// Timeouts for the remote collaborator.  The load path must resolve even
// when the database hangs, so the fetch is bounded before falling back.
const (
	remoteLoadTimeout = 5 * time.Second
	remoteSyncTimeout = 10 * time.Second
)

var (
	// ErrNotFound is the expected outcome for a token or subdomain with
	// no matching active, non-expired record.  Never a panic.
	ErrNotFound = errors.New("registry: client not found")

	// ErrTokenTaken and ErrSubdomainTaken reject appends that would
	// create silent duplicate tenants with undefined resolution order.
	ErrTokenTaken     = errors.New("registry: token already in use")
	ErrSubdomainTaken = errors.New("registry: subdomain already in use")
)

var validate = validator.New()

// RemoteStore is the relational collaborator for the `clients` table.
type RemoteStore interface {
	ListAll(ctx context.Context) ([]client.Record, error)
	Upsert(ctx context.Context, rec client.Record) error
}

// LocalCache is the durable key-value collaborator holding the
// serialized client list.
type LocalCache interface {
	LoadClients(ctx context.Context) ([]client.Record, error)
	SaveClients(ctx context.Context, recs []client.Record) error
}

// Registry holds the in-process client list.  Safe for concurrent use.
type Registry struct {
	remote  RemoteStore
	cache   LocalCache
	buckets storage.BucketCreator
	log     *zap.SugaredLogger

	sfg singleflight.Group

	mu      sync.Mutex
	records []client.Record
}

// New constructs a Registry.  Any collaborator may be nil: a nil remote
// or cache simply shortens the load chain, and a nil bucket provisioner
// skips media provisioning.  A nil log falls back to the global logger.
func New(remote RemoteStore, cache LocalCache, buckets storage.BucketCreator, log *zap.SugaredLogger) *Registry {
	if log == nil {
		log = zap.S()
	}
	return &Registry{
		remote:  remote,
		cache:   cache,
		buckets: buckets,
		log:     log,
	}
}

//
// Load chain
//

// Load populates the in-memory list: remote store, then local cache,
// then the built-in seed.  It returns the number of records loaded and
// never fails; concurrent calls collapse into one fetch.
func (r *Registry) Load(ctx context.Context) int {
	n, _, _ := r.sfg.Do("load", func() (interface{}, error) {
		recs, source := r.fetch(ctx)

		r.mu.Lock()
		r.records = recs
		r.mu.Unlock()

		metrics.ClientLoadTotal.Inc()
		r.updateActiveGauge()
		r.log.Infow("client directory loaded", "source", source, "count", len(recs))

		// A successful remote load refreshes the cache slot so the next
		// degraded start sees current data.
		if source == "remote" && r.cache != nil {
			if err := r.cache.SaveClients(ctx, recs); err != nil {
				r.log.Warnw("cache refresh after remote load failed", "err", err)
			}
		}
		return len(recs), nil
	})
	return n.(int)
}

// fetch walks the fallback chain and reports which tier answered.
func (r *Registry) fetch(ctx context.Context) ([]client.Record, string) {
	if r.remote != nil {
		rctx, cancel := context.WithTimeout(ctx, remoteLoadTimeout)
		recs, err := r.remote.ListAll(rctx)
		cancel()
		switch {
		case err != nil:
			metrics.ClientLoadErrorsTotal.Inc()
			r.log.Warnw("remote client load failed, degrading to cache", "err", err)
		case len(recs) == 0:
			r.log.Infow("remote client table empty, degrading to cache")
		default:
			return recs, "remote"
		}
	}

	metrics.CacheFallbackTotal.Inc()
	if r.cache != nil {
		recs, err := r.cache.LoadClients(ctx)
		if err == nil && len(recs) > 0 {
			return recs, "cache"
		}
		if err != nil {
			r.log.Debugw("local cache miss", "err", err)
		}
	}

	return client.Seed(), "seed"
}

//
// Reads
//

// All returns a deep copy of the current record list, newest state
// included.  Callers must treat the result as their own.
func (r *Registry) All() []client.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

//
// Writes
//

// ReplaceAll swaps in a full record list, as the admin bulk editor does,
// and persists it through the usual cache-then-remote chain.
func (r *Registry) ReplaceAll(ctx context.Context, recs []client.Record) {
	r.mu.Lock()
	r.records = append([]client.Record(nil), recs...)
	snap := r.snapshotLocked()
	r.mu.Unlock()

	r.updateActiveGauge()
	r.persist(ctx, snap)
}

// Append adds one new record.  Token and subdomain collisions are
// rejected outright; silent duplicate tenants resolve in undefined order
// and are not worth the support tickets.  On success the record is
// persisted and a media bucket is provisioned best-effort.
func (r *Registry) Append(ctx context.Context, rec client.Record) error {
	if err := validate.Struct(rec); err != nil {
		return err
	}
	if !rec.PlanType.Valid() {
		return errors.New("registry: unknown plan type " + string(rec.PlanType))
	}

	r.mu.Lock()
	for i := range r.records {
		if r.records[i].Token == rec.Token {
			r.mu.Unlock()
			return ErrTokenTaken
		}
		if r.records[i].Subdomain == rec.Subdomain {
			r.mu.Unlock()
			return ErrSubdomainTaken
		}
	}
	r.records = append(r.records, rec.Clone())
	snap := r.snapshotLocked()
	r.mu.Unlock()

	r.updateActiveGauge()
	r.persist(ctx, snap)
	r.provisionBucket(ctx, rec)
	return nil
}

// Deactivate flips IsActive off for the record holding token, regardless
// of why.  Reports whether a record matched.
func (r *Registry) Deactivate(ctx context.Context, token string) bool {
	return r.mutate(ctx, token, func(rec *client.Record) {
		rec.IsActive = false
	})
}

// Extend pushes the access window out by additionalDays.  It does not
// reactivate an already-lapsed record; that stays an explicit admin
// action.
func (r *Registry) Extend(ctx context.Context, token string, additionalDays int) bool {
	return r.mutate(ctx, token, func(rec *client.Record) {
		rec.AccessUntil = rec.AccessUntil.AddDate(0, 0, additionalDays)
	})
}

// ExpireStale deactivates every active record whose window has lapsed
// and returns copies of the records it flipped.  The resolver already
// expires lazily; this sweep exists for the admin dashboard.
func (r *Registry) ExpireStale(ctx context.Context) []client.Record {
	now := time.Now().UTC()

	r.mu.Lock()
	var expired []client.Record
	for i := range r.records {
		rec := &r.records[i]
		if rec.IsActive && rec.Expired(now) {
			rec.IsActive = false
			expired = append(expired, rec.Clone())
		}
	}
	var snap []client.Record
	if len(expired) > 0 {
		snap = r.snapshotLocked()
	}
	r.mu.Unlock()

	if len(expired) > 0 {
		r.updateActiveGauge()
		r.persist(ctx, snap)
	}
	return expired
}

// mutate applies fn to the record holding token (active or not) and
// persists the whole list.  Last writer wins.
func (r *Registry) mutate(ctx context.Context, token string, fn func(*client.Record)) bool {
	r.mu.Lock()
	var hit bool
	for i := range r.records {
		if r.records[i].Token == token {
			fn(&r.records[i])
			hit = true
			break
		}
	}
	if !hit {
		r.mu.Unlock()
		return false
	}
	snap := r.snapshotLocked()
	r.mu.Unlock()

	r.updateActiveGauge()
	r.persist(ctx, snap)
	return true
}

//
// Persistence
//

// persist writes snap to the local cache synchronously, then kicks off a
// best-effort remote upsert of each record.  The cache write is the
// durability guarantee; remote failures are logged and swallowed.
func (r *Registry) persist(ctx context.Context, snap []client.Record) {
	if r.cache != nil {
		if err := r.cache.SaveClients(ctx, snap); err != nil {
			r.log.Warnw("local cache save failed", "err", err, "count", len(snap))
		}
	}
	if r.remote != nil {
		go r.flushRemote(snap)
	}
}

// flushRemote upserts every record in snap with a bounded deadline,
// detached from the caller's request context.
func (r *Registry) flushRemote(snap []client.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), remoteSyncTimeout)
	defer cancel()

	for _, rec := range snap {
		if err := r.remote.Upsert(ctx, rec); err != nil {
			metrics.RemoteSyncErrorsTotal.Inc()
			r.log.Warnw("remote client sync failed", "id", rec.ID, "err", err)
		}
	}
}

// provisionBucket creates the tenant's media bucket.  Failures are
// swallowed; the record already exists and media can be provisioned
// again later.
func (r *Registry) provisionBucket(ctx context.Context, rec client.Record) {
	if r.buckets == nil {
		return
	}
	opts := storage.BucketOptions{
		Public:       true,
		SizeLimit:    5 * 1024 * 1024,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/webp"},
	}
	if err := r.buckets.CreateBucket(ctx, "gallery-"+rec.ID, opts); err != nil {
		r.log.Warnw("media bucket provisioning failed", "id", rec.ID, "err", err)
	}
}

//
// Internal helpers
//

// snapshotLocked deep-copies the record list.  Caller holds r.mu.
func (r *Registry) snapshotLocked() []client.Record {
	snap := make([]client.Record, len(r.records))
	for i := range r.records {
		snap[i] = r.records[i].Clone()
	}
	return snap
}

func (r *Registry) updateActiveGauge() {
	now := time.Now().UTC()
	r.mu.Lock()
	var active int
	for i := range r.records {
		if r.records[i].IsActive && !r.records[i].Expired(now) {
			active++
		}
	}
	r.mu.Unlock()
	metrics.ActiveClients.Set(float64(active))
}