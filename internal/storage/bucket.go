// internal/storage/bucket.go
//
// Per-tenant media bucket provisioning.
//
// Context
// -------
// Each new rental gets one media bucket (`gallery-<client id>`) for the
// couple's photo uploads.  The registry treats bucket creation as a
// best-effort external side effect: failures are logged and swallowed,
// never surfaced to the admin creating the record.
//
// The filesystem implementation creates a directory per bucket and drops
// a small manifest recording the bucket policy.  Upload and listing live
// in the presentation layer, outside this module.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BucketOptions mirrors the policy fields a bucket is provisioned with.
type BucketOptions struct {
	Public       bool     `json:"public"`
	SizeLimit    int64    `json:"sizeLimit"` // bytes per object
	AllowedTypes []string `json:"allowedTypes"`
}

// BucketCreator is the object-storage capability consumed by the
// registry's append path.
type BucketCreator interface {
	CreateBucket(ctx context.Context, name string, opts BucketOptions) error
}

// FS provisions buckets as directories under a media root.
type FS struct {
	root string
}

// NewFS returns a filesystem bucket provisioner rooted at root.
func NewFS(root string) *FS {
	return &FS{root: root}
}

type manifest struct {
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"createdAt"`
	Policy    BucketOptions `json:"policy"`
}

// CreateBucket creates the bucket directory and writes its manifest.
// Creating a bucket that already exists is a no-op, matching the
// idempotent provisioning the append path expects.
func (f *FS) CreateBucket(_ context.Context, name string, opts BucketOptions) error {
	dir := filepath.Join(f.root, name)
	manifestPath := filepath.Join(dir, "bucket.json")

	if _, err := os.Stat(manifestPath); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: create bucket %s: %w", name, err)
	}

	raw, err := json.MarshalIndent(manifest{
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Policy:    opts,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode manifest for %s: %w", name, err)
	}

	// Write via temp file + rename so a crash never leaves a torn manifest.
	tmp := manifestPath + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("storage: write manifest for %s: %w", name, err)
	}
	if err := os.Rename(tmp, manifestPath); err != nil {
		return fmt.Errorf("storage: commit manifest for %s: %w", name, err)
	}
	return nil
}
