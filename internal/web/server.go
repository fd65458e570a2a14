// internal/web/server.go
//
// HTTP surface: tenant sites, client login, and the admin API.
//
// Context
// -------
// One chi router serves every host.  A request's tenant is decided up
// front by the host-to-tenant middleware (hostmap candidate → registry
// resolution); handlers then read the record off the request context.
// The marketing site is simply the absence of a tenant.
//
// Route map
// ---------
//
//	GET  /                      marketing payload, or the tenant site payload
//	GET  /healthz               liveness
//	GET  /metrics               Prometheus
//	POST /api/login             token → session slot
//	POST /api/logout            clear session slot
//	GET  /api/site              tenant (auto-resolved or session) payload
//	GET  /api/rsvps             tenant RSVPs
//	POST /api/rsvps             add an RSVP
//	GET  /api/messages          tenant guestbook
//	POST /api/messages          add a guestbook entry
//	/admin/api/*                management API behind basic auth (bcrypt)
package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bodalink/bodalink/internal/guest"
	"github.com/bodalink/bodalink/internal/hostmap"
	"github.com/bodalink/bodalink/internal/registry"
)

// Server bundles the collaborators the HTTP layer needs.
type Server struct {
	reg      *registry.Registry
	guests   *guest.Repository // nil in database-degraded mode
	platform hostmap.Platform

	adminUser string
	adminHash []byte // bcrypt

	log *zap.SugaredLogger
}

// New constructs the HTTP layer.  guests may be nil; the guest endpoints
// then answer 503 instead of panicking, keeping the rest of the site up.
func New(reg *registry.Registry, guests *guest.Repository, platform hostmap.Platform,
	adminUser, adminPasswordHash string, log *zap.SugaredLogger) *Server {

	if log == nil {
		log = zap.S()
	}
	return &Server{
		reg:       reg,
		guests:    guests,
		platform:  platform,
		adminUser: adminUser,
		adminHash: []byte(adminPasswordHash),
		log:       log,
	}
}

// Router builds the handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(s.accessLog)
	r.Use(security)
	r.Use(s.withTenant)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", s.handleHome)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.Get("/site", s.handleSite)
		r.Get("/rsvps", s.handleListRSVPs)
		r.Post("/rsvps", s.handleAddRSVP)
		r.Get("/messages", s.handleListMessages)
		r.Post("/messages", s.handleAddMessage)
	})

	r.Route("/admin/api", func(r chi.Router) {
		r.Use(s.adminAuth)
		r.Get("/clients", s.handleAdminListClients)
		r.Post("/clients", s.handleAdminCreateClient)
		r.Post("/clients/{token}/deactivate", s.handleAdminDeactivate)
		r.Post("/clients/{token}/extend", s.handleAdminExtend)
		r.Post("/expire", s.handleAdminExpire)
		r.Get("/stats", s.handleAdminStats)
	})

	return r
}
