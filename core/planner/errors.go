package planner

import (
	"fmt"
	"strings"

	"github.com/opendepot/induction/core/model"
)

// InfeasibilityKind classifies why no valid total assignment exists.
type InfeasibilityKind string

const (
	// InfeasibilityCapacity means a unit had eligible roles but every slot
	// it could take was already consumed, or the fleet outnumbers the slots.
	InfeasibilityCapacity InfeasibilityKind = "capacity_shortfall"
	// InfeasibilityNoRole means a unit had no eligible role at all.
	InfeasibilityNoRole InfeasibilityKind = "no_eligible_role"
)

// UnitInfeasibility pins the failure to one trainset.
type UnitInfeasibility struct {
	TrainsetID string            `json:"trainset_id"`
	Kind       InfeasibilityKind `json:"kind"`
	// EligibleRoles lists the roles the unit could have taken, for operator
	// review of which capacity to raise.
	EligibleRoles []model.Role `json:"eligible_roles,omitempty"`
	Reasons       []Violation  `json:"reasons,omitempty"`
}

// InfeasibleError reports that the solve completed but no assignment exists
// that avoids ineligible pairings. It is a result to surface to an operator,
// not a defect: constraints or capacities must be adjusted by a human.
type InfeasibleError struct {
	Units []UnitInfeasibility
}

func (e *InfeasibleError) Error() string {
	ids := make([]string, len(e.Units))
	for i, u := range e.Units {
		ids[i] = fmt.Sprintf("%s (%s)", u.TrainsetID, u.Kind)
	}
	return "no feasible assignment: " + strings.Join(ids, ", ")
}
