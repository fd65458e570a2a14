// internal/web/admin.go
//
// Management API: the client book, access extensions, and stats.
//
// Admin responses include the full record, token included; this surface
// sits behind adminAuth and is how tokens are handed to couples.

package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bodalink/bodalink/internal/client"
	"github.com/bodalink/bodalink/internal/plan"
	"github.com/bodalink/bodalink/internal/registry"
)

func (s *Server) handleAdminListClients(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.reg.All())
}

func (s *Server) handleAdminCreateClient(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ClientName  string    `json:"clientName"`
		Subdomain   string    `json:"subdomain"`
		WeddingDate time.Time `json:"weddingDate"`
		PlanType    plan.Type `json:"planType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request")
		return
	}
	if !body.PlanType.Valid() {
		writeError(w, http.StatusBadRequest, "unknown plan type")
		return
	}
	if body.WeddingDate.IsZero() {
		writeError(w, http.StatusBadRequest, "weddingDate is required")
		return
	}

	rec := client.New(body.ClientName, body.Subdomain, body.WeddingDate, body.PlanType)
	if err := s.reg.Append(r.Context(), rec); err != nil {
		switch {
		case errors.Is(err, registry.ErrSubdomainTaken), errors.Is(err, registry.ErrTokenTaken):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	s.log.Infow("client created",
		"id", rec.ID, "subdomain", rec.Subdomain, "plan", rec.PlanType)
	writeJSON(w, http.StatusCreated, map[string]any{
		"client": rec,
		"url":    s.platform.ClientURL(rec.Subdomain),
	})
}

func (s *Server) handleAdminDeactivate(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if !s.reg.Deactivate(r.Context(), token) {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func (s *Server) handleAdminExtend(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Days int `json:"days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Days <= 0 {
		writeError(w, http.StatusBadRequest, "days must be a positive integer")
		return
	}

	token := chi.URLParam(r, "token")
	if !s.reg.Extend(r.Context(), token, body.Days) {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "extended", "days": body.Days})
}

func (s *Server) handleAdminExpire(w http.ResponseWriter, r *http.Request) {
	expired := s.reg.ExpireStale(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"expired": len(expired),
		"clients": expired,
	})
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	// The dashboard view doubles as the expiry sweep, so stats never
	// count a lapsed rental as active.
	s.reg.ExpireStale(r.Context())
	writeJSON(w, http.StatusOK, s.reg.Stats())
}
