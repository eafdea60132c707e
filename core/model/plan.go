package model

import "time"

// CostBreakdown holds the weighted sub-costs of one (trainset, role) pairing.
type CostBreakdown struct {
	Readiness float64 `json:"readiness"`
	Mileage   float64 `json:"mileage"`
	Shunt     float64 `json:"shunt"`
	Total     float64 `json:"total"`
}

// PlanEntry is the per-unit line of a nightly plan.
type PlanEntry struct {
	TrainsetID string        `json:"trainset_id"`
	Role       Role          `json:"role"`
	Assigned   bool          `json:"assigned"` // false when the unit overflowed total capacity
	Cost       CostBreakdown `json:"cost"`
	// AlternativeRole and AlternativeDelta describe the next-best eligible
	// role and the extra cost it would have incurred. Only meaningful when
	// HasAlternative is true.
	HasAlternative   bool    `json:"has_alternative"`
	AlternativeRole  Role    `json:"alternative_role,omitempty"`
	AlternativeDelta float64 `json:"alternative_delta,omitempty"`
	// Reasons lists, per refused role, why the unit could not take it.
	Reasons []string `json:"reasons,omitempty"`
}

// Plan is the complete nightly induction plan.
type Plan struct {
	ID            string       `json:"id"`
	GeneratedAt   time.Time    `json:"generated_at"`
	NightOf       time.Time    `json:"night_of"`
	Entries       []PlanEntry  `json:"entries"`
	TotalCost     float64      `json:"total_cost"`
	SpareCapacity map[Role]int `json:"spare_capacity,omitempty"`
}

// RoleCount returns how many units the plan assigns to the given role.
func (p *Plan) RoleCount(r Role) int {
	n := 0
	for _, e := range p.Entries {
		if e.Assigned && e.Role == r {
			n++
		}
	}
	return n
}

// Entry returns the plan entry for a trainset ID, or nil when absent.
func (p *Plan) Entry(id string) *PlanEntry {
	for i := range p.Entries {
		if p.Entries[i].TrainsetID == id {
			return &p.Entries[i]
		}
	}
	return nil
}
