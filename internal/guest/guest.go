// internal/guest/guest.go
//
// Guest-facing persistence: RSVPs and guestbook messages.
//
// Context
// -------
// Each tenant site collects RSVPs and well-wishes from wedding guests.
// Both live on the control-plane database, keyed by client_id, and are
// only ever read back by the owning tenant.  Unlike the client
// directory there is no cache tier here: a guestbook that briefly
// cannot write is acceptable, a wedding site that cannot load is not.
//
// Notes
// -----
// • IDs are minted here so the repository never depends on database
//   auto-increment behavior.
// • Oxford commas, two spaces after periods.
package guest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// RSVP is one guest's attendance reply.
type RSVP struct {
	ID         string    `db:"id" json:"id"`
	ClientID   string    `db:"client_id" json:"clientId"`
	GuestName  string    `db:"guest_name" json:"guestName" validate:"required"`
	Attending  bool      `db:"attending" json:"attending"`
	GuestCount int       `db:"guest_count" json:"guestCount" validate:"min=1,max=10"`
	Note       string    `db:"note" json:"note,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Message is one guestbook entry.
type Message struct {
	ID        string    `db:"id" json:"id"`
	ClientID  string    `db:"client_id" json:"clientId"`
	GuestName string    `db:"guest_name" json:"guestName" validate:"required"`
	Text      string    `db:"text" json:"text" validate:"required,max=1000"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Repository wraps the control-plane pool for the rsvps and messages
// tables.
type Repository struct {
	db *sqlx.DB
}

// NewRepository returns a Repository over db.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// ListRSVPs returns a tenant's RSVPs, newest first.
func (r *Repository) ListRSVPs(ctx context.Context, clientID string) ([]RSVP, error) {
	const q = `
        SELECT id, client_id, guest_name, attending, guest_count, note, created_at
        FROM   rsvps
        WHERE  client_id = ?
        ORDER  BY created_at DESC`
	var rows []RSVP
	if err := r.db.SelectContext(ctx, &rows, q, clientID); err != nil {
		return nil, err
	}
	return rows, nil
}

// InsertRSVP stores one reply, minting its id and timestamp.
func (r *Repository) InsertRSVP(ctx context.Context, rsvp RSVP) (RSVP, error) {
	rsvp.ID = "rsvp-" + uuid.NewString()
	rsvp.CreatedAt = time.Now().UTC()

	const q = `
        INSERT INTO rsvps (id, client_id, guest_name, attending, guest_count, note, created_at)
        VALUES (:id, :client_id, :guest_name, :attending, :guest_count, :note, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, q, rsvp); err != nil {
		return RSVP{}, err
	}
	return rsvp, nil
}

// ListMessages returns a tenant's guestbook, newest first.
func (r *Repository) ListMessages(ctx context.Context, clientID string) ([]Message, error) {
	const q = `
        SELECT id, client_id, guest_name, text, created_at
        FROM   messages
        WHERE  client_id = ?
        ORDER  BY created_at DESC`
	var rows []Message
	if err := r.db.SelectContext(ctx, &rows, q, clientID); err != nil {
		return nil, err
	}
	return rows, nil
}

// InsertMessage stores one guestbook entry, minting its id and timestamp.
func (r *Repository) InsertMessage(ctx context.Context, msg Message) (Message, error) {
	msg.ID = "msg-" + uuid.NewString()
	msg.CreatedAt = time.Now().UTC()

	const q = `
        INSERT INTO messages (id, client_id, guest_name, text, created_at)
        VALUES (:id, :client_id, :guest_name, :text, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, q, msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
