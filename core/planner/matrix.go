package planner

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/opendepot/induction/core/model"
)

// sentinelCost prices an ineligible pairing. It exceeds any achievable sum of
// real costs by orders of magnitude, but feasibility is still checked
// explicitly after the solve instead of relying on magnitude alone.
const sentinelCost = 1e6

// costEpsilon is the tolerance used when comparing float costs.
const costEpsilon = 1e-9

// slot is one column of the cost matrix: a single instance of a role's
// capacity, or a padding column when the fleet outnumbers the slots.
type slot struct {
	role  model.Role
	dummy bool
}

// costMatrix is the square assignment input handed to the solver, together
// with the eligibility and cost details needed to explain the result.
type costMatrix struct {
	dense *mat.Dense
	units []model.Trainset
	slots []slot

	// per unit, indexed like units
	elig  []map[model.Role]Eligibility
	costs []map[model.Role]model.CostBreakdown
}

// rows returns the number of real (non-padding) rows.
func (m *costMatrix) rows() int { return len(m.units) }

// buildMatrix expands role capacities into slot columns, prices every
// (unit, slot) cell and pads the matrix to square. All columns of one role
// share the same cost: units are indifferent between slot instances.
//
// Padding policy: when the fleet exceeds total capacity, dummy columns carry
// the sentinel cost so overflow units surface as capacity shortfall rather
// than vanish. When capacity exceeds the fleet, dummy rows carry zero cost
// and the leftover slots are reported as spare capacity.
func buildMatrix(fleet []model.Trainset, cfg Config, night time.Time) (*costMatrix, error) {
	slots := make([]slot, 0, cfg.Capacities.Total())
	for _, r := range model.Roles {
		var capacity int
		switch r {
		case model.RoleService:
			capacity = cfg.Capacities.Service
		case model.RoleStandby:
			capacity = cfg.Capacities.Standby
		case model.RoleIBL:
			capacity = cfg.Capacities.IBL
		}
		for i := 0; i < capacity; i++ {
			slots = append(slots, slot{role: r})
		}
	}

	n := len(fleet)
	if len(slots) > n {
		n = len(slots)
	}
	for len(slots) < n {
		slots = append(slots, slot{dummy: true})
	}

	cm := &costMatrix{
		dense: mat.NewDense(n, n, nil),
		units: fleet,
		slots: slots,
		elig:  make([]map[model.Role]Eligibility, len(fleet)),
		costs: make([]map[model.Role]model.CostBreakdown, len(fleet)),
	}

	for i, ts := range fleet {
		cm.elig[i] = EvaluateRoles(ts, cfg, night)
		cm.costs[i] = make(map[model.Role]model.CostBreakdown, len(model.Roles))
		for _, r := range model.Roles {
			if !cm.elig[i][r].OK {
				continue
			}
			c := Cost(ts, r, cfg, night)
			if math.IsNaN(c.Total) || math.IsInf(c.Total, 0) || c.Total < 0 {
				return nil, fmt.Errorf("cost model produced invalid total %v for unit %s role %s", c.Total, ts.ID, r)
			}
			cm.costs[i][r] = c
		}

		for j, s := range slots {
			switch {
			case s.dummy:
				cm.dense.Set(i, j, sentinelCost)
			case cm.elig[i][s.role].OK:
				cm.dense.Set(i, j, cm.costs[i][s.role].Total)
			default:
				cm.dense.Set(i, j, sentinelCost)
			}
		}
	}

	// Padding rows for spare capacity cost nothing in every column.
	for i := len(fleet); i < n; i++ {
		for j := 0; j < n; j++ {
			cm.dense.Set(i, j, 0)
		}
	}

	return cm, nil
}
