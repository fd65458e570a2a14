// internal/hostmap/hostmap.go
//
// Host-to-tenant mapping.
//
// Context
// -------
// Every request arrives on some host; this package decides which tenant
// subdomain, if any, that host implies.  "None" means the un-tenanted
// marketing site.  The policy, in order:
//
//   1. An override query parameter (dev and testing) wins verbatim.
//   2. The platform root domain, bare or www-prefixed, maps to none.
//   3. A host under the platform suffix has the suffix stripped, then a
//      fixed tenant-marker infix removed: with suffix ".boda.app" and
//      marker "-invitacion", "maria-juan-invitacion.boda.app" maps to
//      "maria-juan".
//   4. Any other host with more than two labels contributes its first
//      label (customer-owned domains pointed at the platform).
//
// Pure functions over strings; no lookups happen here.  The resulting
// candidate feeds the registry's subdomain resolver.
//
// Notes
// -----
// • Hosts are lowercased and stripped of any :port before matching.
// • Oxford commas, two spaces after periods.
package hostmap

import (
	"net/http"
	"strings"
)

// Platform describes the deployment's own naming scheme.
type Platform struct {
	// RootDomain is the platform's apex, e.g. "boda.app".
	RootDomain string
	// TenantMarker is the infix appended to tenant labels under the
	// platform suffix, e.g. "-invitacion".  May be empty.
	TenantMarker string
	// OverrideParam names the query parameter that forces a candidate,
	// e.g. "subdomain".  Empty disables the override.
	OverrideParam string
}

// Candidate derives the tenant subdomain implied by host.  The override
// argument, when non-empty, is used verbatim.  The second return is
// false when the host maps to the marketing site.
func (p Platform) Candidate(host, override string) (string, bool) {
	if p.OverrideParam != "" && override != "" {
		return override, true
	}

	host = strings.ToLower(stripPort(host))
	root := strings.ToLower(p.RootDomain)

	if host == root || host == "www."+root {
		return "", false
	}

	if root != "" && strings.HasSuffix(host, "."+root) {
		label := strings.TrimSuffix(host, "."+root)
		if p.TenantMarker != "" {
			label = strings.TrimSuffix(label, p.TenantMarker)
		}
		if label == "" || label == "www" {
			return "", false
		}
		return label, true
	}

	// Customer-owned domain: any host deeper than apex + TLD uses its
	// first label as the candidate.
	parts := strings.Split(host, ".")
	if len(parts) <= 2 {
		return "", false
	}
	return parts[0], true
}

// FromRequest applies Candidate to r's host and override parameter.
func (p Platform) FromRequest(r *http.Request) (string, bool) {
	var override string
	if p.OverrideParam != "" {
		override = r.URL.Query().Get(p.OverrideParam)
	}
	return p.Candidate(r.Host, override)
}

// ClientURL builds the public URL for a tenant subdomain under the
// platform suffix, marker included.
func (p Platform) ClientURL(subdomain string) string {
	return "https://" + subdomain + p.TenantMarker + "." + p.RootDomain
}

// stripPort removes any ":port" suffix from the Host header.
func stripPort(h string) string {
	if i := strings.IndexByte(h, ':'); i != -1 {
		return h[:i]
	}
	return h
}
