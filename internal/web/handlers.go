// internal/web/handlers.go
//
// Visitor-facing handlers: marketing payload, tenant site payload,
// client login, and guest RSVPs and messages.

package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/bodalink/bodalink/internal/client"
	"github.com/bodalink/bodalink/internal/guest"
	"github.com/bodalink/bodalink/internal/plan"
	"github.com/bodalink/bodalink/internal/registry"
	"github.com/bodalink/bodalink/internal/session"
)

var validate = validator.New()

// sitePayload is the tenant record as the renderer sees it: no token,
// plus the derived expiration hints the site banner shows.
type sitePayload struct {
	Subdomain       string    `json:"subdomain"`
	ClientName      string    `json:"clientName"`
	PlanType        plan.Type `json:"planType"`
	MaxGuests       int       `json:"maxGuests"`
	Features        []string  `json:"features"`
	WeddingDate     time.Time `json:"weddingDate"`
	AccessUntil     time.Time `json:"accessUntil"`
	DaysLeft        int       `json:"daysLeft"`
	NearExpiration  bool      `json:"nearExpiration"`
	GroomName       string    `json:"groomName,omitempty"`
	BrideName       string    `json:"brideName,omitempty"`
	WeddingLocation string    `json:"weddingLocation,omitempty"`
	WeddingTime     string    `json:"weddingTime,omitempty"`
	BibleVerse      string    `json:"bibleVerse,omitempty"`
	InvitationText  string    `json:"invitationText,omitempty"`
}

func toSitePayload(rec client.Record) sitePayload {
	now := time.Now().UTC()
	return sitePayload{
		Subdomain:       rec.Subdomain,
		ClientName:      rec.ClientName,
		PlanType:        rec.PlanType,
		MaxGuests:       rec.MaxGuests,
		Features:        rec.Features,
		WeddingDate:     rec.WeddingDate,
		AccessUntil:     rec.AccessUntil,
		DaysLeft:        rec.DaysUntilExpiration(now),
		NearExpiration:  rec.NearExpiration(now),
		GroomName:       rec.GroomName,
		BrideName:       rec.BrideName,
		WeddingLocation: rec.WeddingLocation,
		WeddingTime:     rec.WeddingTime,
		BibleVerse:      rec.BibleVerse,
		InvitationText:  rec.InvitationText,
	}
}

// handleHome answers the tenant site payload on tenant hosts and the
// marketing payload (the plan catalog) on the root domain.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if rec, ok := r.Context().Value(tenantKey).(client.Record); ok {
		writeJSON(w, http.StatusOK, toSitePayload(rec))
		return
	}

	plans := make(map[plan.Type]plan.Plan, 3)
	for _, t := range plan.Types() {
		plans[t] = plan.Get(t)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"site":  "bodalink",
		"plans": plans,
	})
}

// handleLogin validates a submitted token and establishes the session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	rec, err := s.reg.ResolveByToken(r.Context(), body.Token)
	if errors.Is(err, registry.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	session.Login(w, r, rec)
	writeJSON(w, http.StatusOK, toSitePayload(rec))
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	session.Logout(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleSite returns the current tenant's payload, whether the tenant
// came from the host or from the session slot.
func (s *Server) handleSite(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.tenantFrom(w, r)
	if !ok {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}
	writeJSON(w, http.StatusOK, toSitePayload(rec))
}

//
// Guest endpoints
//

// requireGuestStore answers for the degraded mode where the guest
// repository has no database behind it.
func (s *Server) requireGuestStore(w http.ResponseWriter) bool {
	if s.guests == nil {
		writeError(w, http.StatusServiceUnavailable, "guest book temporarily unavailable")
		return false
	}
	return true
}

func (s *Server) handleListRSVPs(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.tenantFrom(w, r)
	if !ok {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}
	if !s.requireGuestStore(w) {
		return
	}

	rsvps, err := s.guests.ListRSVPs(r.Context(), rec.ID)
	if err != nil {
		s.log.Errorw("list rsvps failed", "client", rec.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "could not load rsvps")
		return
	}
	writeJSON(w, http.StatusOK, rsvps)
}

func (s *Server) handleAddRSVP(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.tenantFrom(w, r)
	if !ok {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}
	if !s.requireGuestStore(w) {
		return
	}

	var rsvp guest.RSVP
	if err := json.NewDecoder(r.Body).Decode(&rsvp); err != nil {
		writeError(w, http.StatusBadRequest, "malformed rsvp")
		return
	}
	rsvp.ClientID = rec.ID
	if err := validate.Struct(rsvp); err != nil {
		writeError(w, http.StatusBadRequest, "rsvp failed validation")
		return
	}

	stored, err := s.guests.InsertRSVP(r.Context(), rsvp)
	if err != nil {
		s.log.Errorw("insert rsvp failed", "client", rec.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "could not store rsvp")
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.tenantFrom(w, r)
	if !ok {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}
	if !s.requireGuestStore(w) {
		return
	}

	msgs, err := s.guests.ListMessages(r.Context(), rec.ID)
	if err != nil {
		s.log.Errorw("list messages failed", "client", rec.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "could not load messages")
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) handleAddMessage(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.tenantFrom(w, r)
	if !ok {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}
	if !s.requireGuestStore(w) {
		return
	}

	var msg guest.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, "malformed message")
		return
	}
	msg.ClientID = rec.ID
	if err := validate.Struct(msg); err != nil {
		writeError(w, http.StatusBadRequest, "message failed validation")
		return
	}

	stored, err := s.guests.InsertMessage(r.Context(), msg)
	if err != nil {
		s.log.Errorw("insert message failed", "client", rec.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "could not store message")
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

//
// JSON helpers
//

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
