// internal/hostmap/hostmap_test.go
//
// Host-to-tenant mapping policy tests.

package hostmap

import (
	"net/http/httptest"
	"testing"
)

var platform = Platform{
	RootDomain:    "example.com",
	TenantMarker:  "-invitacion",
	OverrideParam: "subdomain",
}

func TestCandidate(t *testing.T) {
	cases := []struct {
		name     string
		host     string
		override string
		want     string
		ok       bool
	}{
		{"override wins", "example.com", "demo", "demo", true},
		{"root domain is marketing site", "example.com", "", "", false},
		{"www root is marketing site", "www.example.com", "", "", false},
		{"platform subdomain with marker", "maria-juan-invitacion.example.com", "", "maria-juan", true},
		{"platform subdomain without marker", "demo.example.com", "", "demo", true},
		{"www under platform is marketing site", "www.example.com:443", "", "", false},
		{"port stripped", "demo.example.com:8080", "", "demo", true},
		{"case folded", "DEMO-INVITACION.Example.COM", "", "demo", true},
		{"custom domain first label", "ana.bodas-ana.net", "", "ana", true},
		{"bare custom apex is none", "bodas-ana.net", "", "", false},
	}
	for _, c := range cases {
		got, ok := platform.Candidate(c.host, c.override)
		if got != c.want || ok != c.ok {
			t.Errorf("%s: Candidate(%q, %q) = (%q, %v), want (%q, %v)",
				c.name, c.host, c.override, got, ok, c.want, c.ok)
		}
	}
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "http://example.com/?subdomain=prueba", nil)
	got, ok := platform.FromRequest(r)
	if !ok || got != "prueba" {
		t.Fatalf("FromRequest = (%q, %v), want (prueba, true)", got, ok)
	}

	r = httptest.NewRequest("GET", "http://demo-invitacion.example.com/", nil)
	got, ok = platform.FromRequest(r)
	if !ok || got != "demo" {
		t.Fatalf("FromRequest = (%q, %v), want (demo, true)", got, ok)
	}
}

func TestClientURL(t *testing.T) {
	if got := platform.ClientURL("maria-juan"); got != "https://maria-juan-invitacion.example.com" {
		t.Fatalf("ClientURL = %q", got)
	}
}
