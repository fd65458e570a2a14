// internal/client/repository.go
//
// Remote relational store for client records.
//
// Context
// -------
// The `clients` table on the control-plane MySQL server is the shared
// source of truth across deployments.  The registry treats it as
// best-effort: every method here can fail without taking the platform
// down, because the registry falls back to its local cache slot.
//
// Notes
// -----
// • Malformed rows are logged and skipped (fail closed), never returned
//   as partial records.
// • Oxford commas, two spaces after periods.
package client

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const columns = `id, client_name, subdomain, token, is_active, created_at,
       last_used, wedding_date, access_until, plan_type, max_guests,
       features, groom_name, bride_name, wedding_location, wedding_time,
       bible_verse, invitation_text`

// Repository wraps the control-plane DB pool for the `clients` table.
type Repository struct {
	db *sqlx.DB
}

// NewRepository returns a Repository over db.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// ListAll returns every client row, newest first.  Rows that fail the
// wire-shape parse are dropped with a warning.
func (r *Repository) ListAll(ctx context.Context) ([]Record, error) {
	const q = `
        SELECT ` + columns + `
        FROM   clients
        ORDER  BY created_at DESC`

	var rows []row
	if err := r.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}

	recs := make([]Record, 0, len(rows))
	for _, w := range rows {
		rec, err := w.toRecord()
		if err != nil {
			zap.S().Warnw("dropping malformed client row", "err", err)
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Upsert writes one record, inserting or replacing on the id key.
func (r *Repository) Upsert(ctx context.Context, rec Record) error {
	const q = `
        INSERT INTO clients (` + columns + `)
        VALUES (:id, :client_name, :subdomain, :token, :is_active, :created_at,
                :last_used, :wedding_date, :access_until, :plan_type, :max_guests,
                :features, :groom_name, :bride_name, :wedding_location, :wedding_time,
                :bible_verse, :invitation_text)
        ON DUPLICATE KEY UPDATE
                client_name = VALUES(client_name),
                subdomain   = VALUES(subdomain),
                token       = VALUES(token),
                is_active   = VALUES(is_active),
                last_used   = VALUES(last_used),
                wedding_date = VALUES(wedding_date),
                access_until = VALUES(access_until),
                plan_type   = VALUES(plan_type),
                max_guests  = VALUES(max_guests),
                features    = VALUES(features),
                groom_name  = VALUES(groom_name),
                bride_name  = VALUES(bride_name),
                wedding_location = VALUES(wedding_location),
                wedding_time     = VALUES(wedding_time),
                bible_verse      = VALUES(bible_verse),
                invitation_text  = VALUES(invitation_text)`

	_, err := r.db.NamedExecContext(ctx, q, fromRecord(rec))
	return err
}
