// internal/session/session_test.go
//
// Session slot tests against a seed-backed registry.

package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/bodalink/bodalink/internal/registry"
)

// demoToken is the seed demo site's token; a registry with no
// collaborators loads the seed, so it is always resolvable here.
const demoToken = "demo-token-2024"

func seedRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New(nil, nil, nil, zap.NewNop().Sugar())
	reg.Load(context.Background())
	return reg
}

func TestLoginThenCurrent(t *testing.T) {
	reg := seedRegistry(t)

	rec, err := reg.ResolveByToken(context.Background(), demoToken)
	if err != nil {
		t.Fatalf("seed token did not resolve: %v", err)
	}

	// Login sets the slot.
	rr := httptest.NewRecorder()
	Login(rr, httptest.NewRequest("POST", "/api/login", nil), rec)
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != demoToken {
		t.Fatalf("unexpected cookies after login: %+v", cookies)
	}
	if cookies[0].MaxAge != 0 || !cookies[0].Expires.IsZero() {
		t.Fatal("session cookie must be browsing-session scoped")
	}

	// Current re-validates it.
	r := httptest.NewRequest("GET", "/api/site", nil)
	r.AddCookie(cookies[0])
	got, ok := Current(httptest.NewRecorder(), r, reg)
	if !ok || got.Token != demoToken {
		t.Fatalf("Current = (%+v, %v), want demo record", got, ok)
	}
}

func TestCurrent_NoCookieIsAnonymous(t *testing.T) {
	reg := seedRegistry(t)
	if _, ok := Current(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil), reg); ok {
		t.Fatal("anonymous request reported as authenticated")
	}
}

func TestCurrent_StaleSlotIsCleared(t *testing.T) {
	reg := seedRegistry(t)
	reg.Deactivate(context.Background(), demoToken)

	r := httptest.NewRequest("GET", "/", nil)
	r.AddCookie(&http.Cookie{Name: "boda_session", Value: demoToken})

	w := httptest.NewRecorder()
	if _, ok := Current(w, r, reg); ok {
		t.Fatal("deactivated token still authenticated")
	}

	// The stale slot must be cleared on the way out.
	sc := w.Result().Header.Get("Set-Cookie")
	if !strings.Contains(sc, "boda_session=;") && !strings.Contains(sc, "Max-Age=0") {
		t.Fatalf("stale slot not cleared, Set-Cookie: %q", sc)
	}
}

func TestLogout(t *testing.T) {
	rr := httptest.NewRecorder()
	Logout(rr)
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("logout did not clear the slot: %+v", cookies)
	}
}
