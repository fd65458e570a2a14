// internal/registry/stats.go
//
// Business statistics for the admin dashboard.
package registry

import (
	"time"

	"github.com/bodalink/bodalink/internal/plan"
)

// Stats summarizes the client book: counts by state and tier, and total
// revenue from the tier price of every record ever sold.
type Stats struct {
	TotalClients   int               `json:"totalClients"`
	ActiveClients  int               `json:"activeClients"`
	ExpiredClients int               `json:"expiredClients"`
	TotalRevenue   int               `json:"totalRevenue"`
	ClientsByPlan  map[plan.Type]int `json:"clientsByPlan"`
}

// Stats computes the summary over the current in-memory list.  A record
// counts as active only while IsActive is set and its window has not
// lapsed; everything else counts as expired.
func (r *Registry) Stats() Stats {
	now := time.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	s := Stats{ClientsByPlan: make(map[plan.Type]int, 3)}
	for i := range r.records {
		rec := &r.records[i]
		s.TotalClients++
		s.TotalRevenue += plan.Get(rec.PlanType).Price
		s.ClientsByPlan[rec.PlanType]++

		if rec.IsActive && !rec.Expired(now) {
			s.ActiveClients++
		} else {
			s.ExpiredClients++
		}
	}
	return s
}
