package planner

import (
	"fmt"

	"github.com/opendepot/induction/core/model"
)

// explainEntries decorates the raw matching with the data an operator needs
// to review the plan: sub-cost breakdown, refused-role reasons and the cost
// delta to the next-best eligible role. Pure transformation of the already
// computed matrix and assignment.
func explainEntries(cm *costMatrix, assign []int) ([]model.PlanEntry, float64) {
	entries := make([]model.PlanEntry, 0, cm.rows())
	var total float64

	for i := range cm.units {
		ts := cm.units[i]
		s := cm.slots[assign[i]]

		entry := model.PlanEntry{TrainsetID: ts.ID, Assigned: !s.dummy}
		if s.dummy {
			entries = append(entries, entry)
			continue
		}

		entry.Role = s.role
		entry.Cost = cm.costs[i][s.role]
		total += entry.Cost.Total

		// Cost of the closest eligible alternative, for override decisions.
		bestDelta := 0.0
		var bestRole model.Role
		found := false
		for _, r := range model.Roles {
			if r == s.role || !cm.elig[i][r].OK {
				continue
			}
			delta := cm.costs[i][r].Total - entry.Cost.Total
			if !found || delta < bestDelta-costEpsilon {
				bestDelta = delta
				bestRole = r
				found = true
			}
		}
		if found {
			entry.HasAlternative = true
			entry.AlternativeRole = bestRole
			entry.AlternativeDelta = bestDelta
		}

		for _, r := range model.Roles {
			for _, v := range cm.elig[i][r].Reasons {
				entry.Reasons = append(entry.Reasons, fmt.Sprintf("%s: %s", r, v.Message))
			}
		}

		entries = append(entries, entry)
	}

	return entries, total
}

// spareCapacity counts slots left to padding rows, per role.
func spareCapacity(cm *costMatrix, assign []int) map[model.Role]int {
	taken := make(map[int]bool, len(assign))
	for i := range cm.units {
		taken[assign[i]] = true
	}
	spare := make(map[model.Role]int)
	for j, s := range cm.slots {
		if !s.dummy && !taken[j] {
			spare[s.role]++
		}
	}
	if len(spare) == 0 {
		return nil
	}
	return spare
}
