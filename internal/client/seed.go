// internal/client/seed.go
//
// Built-in demo records.
//
// Context
// -------
// The registry's load chain is remote store → local cache → this seed.
// The seed exists so a fresh install, or a fully degraded one, still
// serves the demo site and two sample couples instead of an empty list.
// Access windows are relative to "now" so the seed never ships expired.
package client

import (
	"time"

	"github.com/bodalink/bodalink/internal/plan"
)

// Seed returns the built-in demo client list.  Each call returns fresh
// copies; callers may mutate the result freely.
func Seed() []Record {
	now := time.Now().UTC()

	return []Record{
		{
			ID:          "client-001",
			ClientName:  "Boda de María y Juan",
			Subdomain:   "maria-juan",
			Token:       "boda-maria-juan-2024-xyz123",
			IsActive:    true,
			CreatedAt:   now,
			WeddingDate: now.AddDate(0, 0, 90),
			AccessUntil: now.AddDate(0, 0, 120), // wedding + basic duration
			PlanType:    plan.Basic,
			MaxGuests:   50,
			Features:    plan.Get(plan.Basic).Features,
			GroomName:   "Juan",
			BrideName:   "María",
		},
		{
			ID:          "client-002",
			ClientName:  "Boda de Ana y Carlos",
			Subdomain:   "ana-carlos",
			Token:       "boda-ana-carlos-2024-abc456",
			IsActive:    true,
			CreatedAt:   now,
			WeddingDate: now.AddDate(0, 0, 120),
			AccessUntil: now.AddDate(0, 0, 180), // wedding + premium duration
			PlanType:    plan.Premium,
			MaxGuests:   100,
			Features:    plan.Get(plan.Premium).Features,
			GroomName:   "Carlos",
			BrideName:   "Ana",
		},
		{
			ID:          "client-demo",
			ClientName:  "Sitio de Demostración",
			Subdomain:   "demo",
			Token:       "demo-token-2024",
			IsActive:    true,
			CreatedAt:   now,
			WeddingDate: now.AddDate(0, 0, 60),
			AccessUntil: now.AddDate(0, 0, 30), // demo access is time-boxed, not plan-derived
			PlanType:    plan.Basic,
			MaxGuests:   50,
			Features:    plan.Get(plan.Basic).Features,
		},
	}
}
