// internal/web/server_test.go
//
// HTTP-surface tests: tenant resolution by host, login flow, degraded
// guest endpoints, and the admin API, all against a seed-backed
// registry and httptest.
//
// Run: go test ./internal/web -v

package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bodalink/bodalink/internal/hostmap"
	"github.com/bodalink/bodalink/internal/registry"
)

const (
	demoToken     = "demo-token-2024"
	adminUser     = "admin"
	adminPassword = "prueba-admin"
)

func testServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()

	reg := registry.New(nil, nil, nil, zap.NewNop().Sugar())
	reg.Load(context.Background())

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	s := New(reg, nil, hostmap.Platform{
		RootDomain:    "example.com",
		TenantMarker:  "-invitacion",
		OverrideParam: "subdomain",
	}, adminUser, string(hash), zap.NewNop().Sugar())

	return s, s.Router()
}

func TestTenantHostServesSitePayload(t *testing.T) {
	_, h := testServer(t)

	req := httptest.NewRequest("GET", "http://demo-invitacion.example.com/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if payload["subdomain"] != "demo" {
		t.Fatalf("payload subdomain = %v, want demo", payload["subdomain"])
	}
	if _, leaked := payload["token"]; leaked {
		t.Fatal("site payload leaked the access token")
	}
}

func TestRootHostServesMarketingPayload(t *testing.T) {
	_, h := testServer(t)

	req := httptest.NewRequest("GET", "http://example.com/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "plans") {
		t.Fatalf("marketing payload missing plan catalog: %s", rr.Body.String())
	}
}

func TestUnknownSubdomainFallsThroughToMarketing(t *testing.T) {
	_, h := testServer(t)

	req := httptest.NewRequest("GET", "http://nadie-invitacion.example.com/api/site", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestLoginFlow(t *testing.T) {
	_, h := testServer(t)

	// Bad token → 401.
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "http://example.com/api/login",
		strings.NewReader(`{"token":"no-existe"}`)))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status = %d, want 401", rr.Code)
	}

	// Good token → 200 + session cookie.
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "http://example.com/api/login",
		strings.NewReader(`{"token":"`+demoToken+`"}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200", rr.Code)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != demoToken {
		t.Fatalf("session slot not set: %+v", cookies)
	}

	// The session now answers /api/site from the root domain.
	req := httptest.NewRequest("GET", "http://example.com/api/site", nil)
	req.AddCookie(cookies[0])
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("site via session status = %d, want 200", rr.Code)
	}

	// Logout clears the slot.
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "http://example.com/api/logout", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d, want 204", rr.Code)
	}
}

func TestGuestEndpointsDegradeWithoutDatabase(t *testing.T) {
	_, h := testServer(t) // guests repository is nil

	req := httptest.NewRequest("GET", "http://demo-invitacion.example.com/api/rsvps", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}

//
// Admin API
//

func adminReq(method, url, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, url, nil)
	} else {
		r = httptest.NewRequest(method, url, strings.NewReader(body))
	}
	r.SetBasicAuth(adminUser, adminPassword)
	return r
}

func TestAdminRequiresAuth(t *testing.T) {
	_, h := testServer(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "http://example.com/admin/api/clients", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("no-auth status = %d, want 401", rr.Code)
	}

	bad := httptest.NewRequest("GET", "http://example.com/admin/api/clients", nil)
	bad.SetBasicAuth(adminUser, "contraseña-mala")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, bad)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad-password status = %d, want 401", rr.Code)
	}
}

func TestAdminClientLifecycle(t *testing.T) {
	_, h := testServer(t)

	wedding := time.Now().UTC().AddDate(0, 3, 0).Format(time.RFC3339)

	// Create.
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, adminReq("POST", "http://example.com/admin/api/clients",
		`{"clientName":"Boda de Sofía y Diego","subdomain":"sofia-diego",`+
			`"weddingDate":"`+wedding+`","planType":"premium"}`))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rr.Code, rr.Body.String())
	}
	var created struct {
		Client struct {
			Token string `json:"token"`
		} `json:"client"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("create body: %v", err)
	}
	if created.Client.Token == "" {
		t.Fatal("created client has no token")
	}
	if created.URL != "https://sofia-diego-invitacion.example.com" {
		t.Fatalf("client url = %q", created.URL)
	}

	// Duplicate subdomain → 409.
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, adminReq("POST", "http://example.com/admin/api/clients",
		`{"clientName":"Otra","subdomain":"sofia-diego",`+
			`"weddingDate":"`+wedding+`","planType":"basic"}`))
	if rr.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", rr.Code)
	}

	// Extend.
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, adminReq("POST",
		"http://example.com/admin/api/clients/"+created.Client.Token+"/extend",
		`{"days":15}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("extend status = %d", rr.Code)
	}

	// Deactivate.
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, adminReq("POST",
		"http://example.com/admin/api/clients/"+created.Client.Token+"/deactivate", ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("deactivate status = %d", rr.Code)
	}

	// Stats see seed + the new (now inactive) client.
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, adminReq("GET", "http://example.com/admin/api/stats", ""))
	if rr.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rr.Code)
	}
	var stats struct {
		TotalClients   int `json:"totalClients"`
		ExpiredClients int `json:"expiredClients"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &stats); err != nil {
		t.Fatalf("stats body: %v", err)
	}
	if stats.TotalClients != 4 || stats.ExpiredClients < 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
