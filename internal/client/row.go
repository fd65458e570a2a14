// internal/client/row.go
//
// Wire-row conversion between the `clients` table and Record.
//
// Context
// -------
// The relational store speaks snake_case columns with NULLable strings
// and a JSON-encoded feature list.  Conversion is parse-don't-validate:
// `toRecord` rejects rows missing identity or access-control fields, so
// a malformed row is treated as absent rather than propagated as a
// half-filled Record.
//
// Notes
// -----
// • Timestamps are stored and compared as UTC instants; MySQL DATETIME
//   columns are read back with parseTime=true on the DSN.
package client

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bodalink/bodalink/internal/plan"
)

var errMalformedRow = errors.New("client: malformed row")

// row mirrors the `clients` table shape.
type row struct {
	ID         string     `db:"id"`
	ClientName string     `db:"client_name"`
	Subdomain  string     `db:"subdomain"`
	Token      string     `db:"token"`
	IsActive   bool       `db:"is_active"`
	CreatedAt  time.Time  `db:"created_at"`
	LastUsed   *time.Time `db:"last_used"`

	WeddingDate time.Time `db:"wedding_date"`
	AccessUntil time.Time `db:"access_until"`

	PlanType string `db:"plan_type"`
	MaxGuests int    `db:"max_guests"`
	Features  []byte `db:"features"` // JSON array of strings

	GroomName       sql.NullString `db:"groom_name"`
	BrideName       sql.NullString `db:"bride_name"`
	WeddingLocation sql.NullString `db:"wedding_location"`
	WeddingTime     sql.NullString `db:"wedding_time"`
	BibleVerse      sql.NullString `db:"bible_verse"`
	InvitationText  sql.NullString `db:"invitation_text"`
}

// toRecord converts one wire row into a Record, failing closed on rows
// that lack identity or access-control fields.
func (w row) toRecord() (Record, error) {
	if w.ID == "" || w.Subdomain == "" || w.Token == "" {
		return Record{}, fmt.Errorf("%w: id=%q subdomain=%q", errMalformedRow, w.ID, w.Subdomain)
	}
	if w.AccessUntil.IsZero() {
		return Record{}, fmt.Errorf("%w: %s has no access_until", errMalformedRow, w.ID)
	}

	var features []string
	if len(w.Features) > 0 {
		if err := json.Unmarshal(w.Features, &features); err != nil {
			return Record{}, fmt.Errorf("%w: %s features: %v", errMalformedRow, w.ID, err)
		}
	}

	return Record{
		ID:              w.ID,
		ClientName:      w.ClientName,
		Subdomain:       w.Subdomain,
		Token:           w.Token,
		IsActive:        w.IsActive,
		CreatedAt:       w.CreatedAt.UTC(),
		LastUsedAt:      utcPtr(w.LastUsed),
		WeddingDate:     w.WeddingDate.UTC(),
		AccessUntil:     w.AccessUntil.UTC(),
		PlanType:        plan.Type(w.PlanType),
		MaxGuests:       w.MaxGuests,
		Features:        features,
		GroomName:       w.GroomName.String,
		BrideName:       w.BrideName.String,
		WeddingLocation: w.WeddingLocation.String,
		WeddingTime:     w.WeddingTime.String,
		BibleVerse:      w.BibleVerse.String,
		InvitationText:  w.InvitationText.String,
	}, nil
}

// fromRecord converts a Record into its wire-row shape.
func fromRecord(r Record) row {
	features, _ := json.Marshal(r.Features) // []string never fails to encode

	return row{
		ID:              r.ID,
		ClientName:      r.ClientName,
		Subdomain:       r.Subdomain,
		Token:           r.Token,
		IsActive:        r.IsActive,
		CreatedAt:       r.CreatedAt.UTC(),
		LastUsed:        utcPtr(r.LastUsedAt),
		WeddingDate:     r.WeddingDate.UTC(),
		AccessUntil:     r.AccessUntil.UTC(),
		PlanType:        string(r.PlanType),
		MaxGuests:       r.MaxGuests,
		Features:        features,
		GroomName:       nullable(r.GroomName),
		BrideName:       nullable(r.BrideName),
		WeddingLocation: nullable(r.WeddingLocation),
		WeddingTime:     nullable(r.WeddingTime),
		BibleVerse:      nullable(r.BibleVerse),
		InvitationText:  nullable(r.InvitationText),
	}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
