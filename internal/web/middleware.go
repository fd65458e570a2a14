// internal/web/middleware.go
//
// Host-to-tenant resolution, security headers, and admin auth.

package web

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/bodalink/bodalink/internal/client"
	"github.com/bodalink/bodalink/internal/session"
	"github.com/bodalink/bodalink/internal/ua"
)

type ctxKey int

const tenantKey ctxKey = iota

// withTenant derives a subdomain candidate from the request host and,
// when it resolves to a live rental, attaches the record to the request
// context.  A candidate that does not resolve is not an error here; the
// request simply proceeds un-tenanted and handlers decide what that
// means for them.
func (s *Server) withTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sub, ok := s.platform.FromRequest(r); ok {
			if rec, err := s.reg.ResolveBySubdomain(r.Context(), sub); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), tenantKey, rec))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// tenantFrom returns the record attached by withTenant, falling back to
// the session slot so a logged-in couple can preview their site from
// the root domain too.
func (s *Server) tenantFrom(w http.ResponseWriter, r *http.Request) (client.Record, bool) {
	if rec, ok := r.Context().Value(tenantKey).(client.Record); ok {
		return rec, true
	}
	return session.Current(w, r, s.reg)
}

// accessLog writes one structured line per request.  The UA fingerprint
// rides along so the logs can answer how many couples' guests open
// their invitation on a phone, and crawler hits are marked as such.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		agent := ua.Parse(r.UserAgent())
		s.log.Infow("request",
			"host", r.Host,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"dur", time.Since(start),
			"device", agent.Device,
			"browser", agent.Browser,
			"bot", agent.IsBot,
		)
	})
}

// ForceHTTPS issues a 308 Permanent Redirect to the HTTPS version of
// the same URL for any plain-HTTP request that is not from localhost.
// cmd/web wraps the router with it when the config flag is set.
func ForceHTTPS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS != nil || hostOnly(r.Host) == "localhost" {
			next.ServeHTTP(w, r)
			return
		}
		target := "https://" + r.Host + r.URL.RequestURI()
		http.Redirect(w, r, target, http.StatusPermanentRedirect)
	})
}

// hostOnly removes the :port suffix from Host when present.
func hostOnly(h string) string {
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}

// security sets the standard hardening headers on every response,
// without overwriting anything a handler set first.
func security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)

		set := func(k, v string) {
			if w.Header().Get(k) == "" {
				w.Header().Add(k, v)
			}
		}
		set("X-Frame-Options", "DENY")
		set("X-Content-Type-Options", "nosniff")
		set("Referrer-Policy", "strict-origin-when-cross-origin")
		set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
	})
}

// adminAuth guards the management API with HTTP basic auth.  The
// password is checked against a bcrypt hash; the user name with a
// constant-time compare.
func (s *Server) adminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(s.adminUser)) != 1 ||
			bcrypt.CompareHashAndPassword(s.adminHash, []byte(pass)) != nil {

			w.Header().Set("WWW-Authenticate", `Basic realm="bodalink admin"`)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
