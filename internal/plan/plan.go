// internal/plan/plan.go
//
// Service-tier catalog.
//
// Context
// -------
// Every rented site is sold under one of three closed tiers.  The catalog
// is compile-time data: it is loaded once and never mutated, and the set
// of valid tier keys is known to the whole codebase.  Client records copy
// `MaxGuests` and `Features` out of the catalog at creation time, so a
// later catalog change never retroactively alters an existing client.
//
// Notes
// -----
// • `Get` is total; an unknown key falls back to the basic tier rather
//   than panicking, because tier keys also arrive from persisted rows.
// • Oxford commas, two spaces after periods.
package plan

// Type is the closed set of tier keys stored on client records.
type Type string

const (
	Basic   Type = "basic"
	Premium Type = "premium"
	Deluxe  Type = "deluxe"
)

// Plan describes one service tier.  Price is in whole currency units.
type Plan struct {
	Name         string
	DurationDays int
	MaxGuests    int
	Price        int
	Features     []string
}

var catalog = map[Type]Plan{
	Basic: {
		Name:         "Básico",
		DurationDays: 30,
		MaxGuests:    50,
		Price:        100,
		Features: []string{
			"Sitio web personalizado", "Galería de fotos", "RSVP", "Mensajes",
		},
	},
	Premium: {
		Name:         "Premium",
		DurationDays: 60,
		MaxGuests:    100,
		Price:        200,
		Features: []string{
			"Sitio web personalizado", "Galería de fotos", "RSVP", "Mensajes",
			"Countdown", "Música de fondo",
		},
	},
	Deluxe: {
		Name:         "Deluxe",
		DurationDays: 90,
		MaxGuests:    200,
		Price:        300,
		Features: []string{
			"Sitio web personalizado", "Galería de fotos", "RSVP", "Mensajes",
			"Countdown", "Música de fondo", "Video de fondo", "Animaciones avanzadas",
		},
	},
}

// Get returns the plan for t.  Unknown keys resolve to the basic tier so
// callers never have to handle a failure mode.  The returned Features
// slice is a copy; callers may keep it without aliasing the catalog.
func Get(t Type) Plan {
	p, ok := catalog[t]
	if !ok {
		p = catalog[Basic]
	}
	p.Features = append([]string(nil), p.Features...)
	return p
}

// Valid reports whether t is one of the known tier keys.
func (t Type) Valid() bool {
	_, ok := catalog[t]
	return ok
}

// Types lists the tier keys in ascending price order, for admin listings.
func Types() []Type {
	return []Type{Basic, Premium, Deluxe}
}
