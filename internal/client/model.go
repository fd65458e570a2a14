// internal/client/model.go
//
// Client record model.
//
// Context
// -------
// Record mirrors one row in the persistent `clients` table: one rented
// wedding site, keyed by a unique subdomain for visitors and a unique
// opaque token for the couple's own login.  Access control is two flags:
//
//   - IsActive    – false once the rental is deactivated or has lapsed.
//   - AccessUntil – absolute UTC instant after which the record is dead.
//
// Expiration is lazy: nothing sweeps the table on a timer; the resolver
// flips IsActive on the first lookup past AccessUntil.
//
// MaxGuests and Features are snapshot copies taken from the plan catalog
// when the record is created.  They are per-record data, never derived
// live from PlanType afterward.
//
// Notes
// -----
// • JSON tags match the browser-era payload shape, which is also what the
//   local cache slot stores.
// • Oxford commas, two spaces after periods.
package client

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bodalink/bodalink/internal/plan"
)

// Record is one rented tenant site.
type Record struct {
	ID         string     `json:"id"`
	ClientName string     `json:"clientName"`
	Subdomain  string     `json:"subdomain" validate:"required,hostname_rfc1123,lowercase"`
	Token      string     `json:"token" validate:"required"`
	IsActive   bool       `json:"isActive"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastUsedAt *time.Time `json:"lastUsed,omitempty"`

	WeddingDate time.Time `json:"weddingDate"`
	AccessUntil time.Time `json:"accessUntil"`

	PlanType  plan.Type `json:"planType" validate:"required"`
	MaxGuests int       `json:"maxGuests"`
	Features  []string  `json:"features"`

	// Optional content customization; empty values are defaulted at
	// render time by the presentation layer.
	GroomName       string `json:"groomName,omitempty"`
	BrideName       string `json:"brideName,omitempty"`
	WeddingLocation string `json:"weddingLocation,omitempty"`
	WeddingTime     string `json:"weddingTime,omitempty"`
	BibleVerse      string `json:"bibleVerse,omitempty"`
	InvitationText  string `json:"invitationText,omitempty"`
}

// Expired reports whether now is past the record's access window.
func (r *Record) Expired(now time.Time) bool {
	return now.After(r.AccessUntil)
}

// DaysUntilExpiration returns the whole days of access left, floored at
// zero.  Partial days count as one, matching the customer-facing notice.
func (r *Record) DaysUntilExpiration(now time.Time) int {
	d := r.AccessUntil.Sub(now)
	if d <= 0 {
		return 0
	}
	days := int((d + 24*time.Hour - 1) / (24 * time.Hour))
	return days
}

// NearExpiration reports whether seven or fewer days of access remain.
func (r *Record) NearExpiration(now time.Time) bool {
	return r.DaysUntilExpiration(now) <= 7
}

// Clone returns a deep copy safe to hand to callers outside the registry
// lock.  The Features slice and LastUsedAt pointer are duplicated.
func (r Record) Clone() Record {
	cp := r
	cp.Features = append([]string(nil), r.Features...)
	if r.LastUsedAt != nil {
		t := *r.LastUsedAt
		cp.LastUsedAt = &t
	}
	return cp
}

// New mints a Record for one new rental.  The token embeds the subdomain
// for human greppability plus a UUID for uniqueness; the access window is
// the wedding date plus the plan's rental duration.  MaxGuests and the
// feature list are copied out of the catalog here, once.
func New(clientName, subdomain string, weddingDate time.Time, planType plan.Type) Record {
	p := plan.Get(planType)
	now := time.Now().UTC()

	return Record{
		ID:          "client-" + uuid.NewString(),
		ClientName:  clientName,
		Subdomain:   subdomain,
		Token:       fmt.Sprintf("boda-%s-%s", subdomain, uuid.NewString()),
		IsActive:    true,
		CreatedAt:   now,
		WeddingDate: weddingDate.UTC(),
		AccessUntil: weddingDate.UTC().AddDate(0, 0, p.DurationDays),
		PlanType:    planType,
		MaxGuests:   p.MaxGuests,
		Features:    p.Features,
	}
}
