// internal/session/session.go
//
// Client session holder.
//
// Context
// -------
// A couple logs in once with their access token; afterwards the session
// cookie carries that token so page loads stay authenticated.  The
// cookie is the persisted slot and the registry is the judge: every read
// re-validates the stored token through the resolver, so a deactivated
// or lapsed rental drops to anonymous on its next request, and the stale
// slot is cleared in the same breath.
//
// States: anonymous (no cookie), authenticated (cookie resolves), and
// the transient expired-pending case (cookie present but re-validation
// fails), which clears the slot and lands on anonymous.
//
// Notes
// -----
// • Only the token is stored client-side; record contents always come
//   from the registry.  A garbage cookie value is just a failed lookup.
// • No Expires on the cookie: the slot is scoped to the browsing
//   session, matching the rental login UX.
package session

import (
	"net/http"

	"github.com/bodalink/bodalink/internal/client"
	"github.com/bodalink/bodalink/internal/registry"
)

const cookieName = "boda_session"

// Login writes rec's token into the session slot.  Callers have already
// resolved and validated the record.
func Login(w http.ResponseWriter, r *http.Request, rec client.Record) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    rec.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// Logout clears the session slot.
func Logout(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// Current returns the authenticated client for this request, if any.
// The stored token is re-validated through reg; on failure the slot is
// cleared and the request proceeds anonymous.
func Current(w http.ResponseWriter, r *http.Request, reg *registry.Registry) (client.Record, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return client.Record{}, false
	}

	rec, err := reg.ResolveByToken(r.Context(), c.Value)
	if err != nil {
		Logout(w) // expired-pending → anonymous
		return client.Record{}, false
	}
	return rec, true
}
