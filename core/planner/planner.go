package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opendepot/induction/core/logger"
	"github.com/opendepot/induction/core/metrics"
	"github.com/opendepot/induction/core/model"
	"github.com/opendepot/induction/internal/eventbus"
)

// PlanComputed is published on the event bus after each successful solve.
type PlanComputed struct {
	Plan *model.Plan
}

// Planner runs the nightly assignment pipeline: eligibility, costing, matrix
// construction, optimal matching and explanation. A Planner holds no per-solve
// state, so concurrent solves for different nights or scenarios are safe.
type Planner struct {
	log  logger.Logger
	sink metrics.MetricsSink
	bus  eventbus.EventBus
}

// New creates a Planner. Sink and bus may be nil when metrics or plan events
// are not wanted.
func New(log logger.Logger, sink metrics.MetricsSink, bus eventbus.EventBus) *Planner {
	if log == nil {
		log = nopLogger{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Planner{log: log, sink: sink, bus: bus}
}

// Plan solves one night's induction assignment for the given fleet snapshot.
// It returns the explained plan, or a *ConfigError for malformed input, or a
// *InfeasibleError when no assignment avoids ineligible pairings. The context
// is consulted between pipeline stages so callers can layer a coarse timeout.
func (p *Planner) Plan(ctx context.Context, fleet []model.Trainset, cfg Config, night time.Time) (*model.Plan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(fleet) == 0 {
		return nil, &ConfigError{Field: "fleet", Reason: "no trainsets to plan"}
	}
	seen := make(map[string]bool, len(fleet))
	reserved := 0
	for _, ts := range fleet {
		if seen[ts.ID] {
			return nil, &ConfigError{Field: "fleet", Reason: fmt.Sprintf("duplicate trainset id %s", ts.ID)}
		}
		seen[ts.ID] = true
		if ts.HasCleaningSlot() {
			reserved++
		}
	}
	if reserved > cfg.CleaningBays {
		return nil, &ConfigError{
			Field:  "cleaning_bays",
			Reason: fmt.Sprintf("%d cleaning reservations exceed %d bays", reserved, cfg.CleaningBays),
		}
	}

	start := time.Now()
	cm, err := buildMatrix(fleet, cfg, night)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	assign, err := solveAssignment(cm.dense)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if infeasible := detectInfeasibility(cm, assign); infeasible != nil {
		p.log.Warnf("solve infeasible for %d unit(s): %v", len(infeasible.Units), infeasible)
		p.recordSolve(metrics.SolveResult{
			NightOf:    night,
			FleetSize:  len(fleet),
			Duration:   time.Since(start),
			Infeasible: true,
			Time:       time.Now(),
		}, nil)
		return nil, infeasible
	}

	entries, total := explainEntries(cm, assign)
	plan := &model.Plan{
		ID:            uuid.NewString(),
		GeneratedAt:   time.Now(),
		NightOf:       night,
		Entries:       entries,
		TotalCost:     total,
		SpareCapacity: spareCapacity(cm, assign),
	}

	p.log.Infof("plan %s: %d units, total cost %.3f in %s", plan.ID, len(entries), total, time.Since(start))
	p.log.Debugw("role distribution", map[string]any{
		"service": plan.RoleCount(model.RoleService),
		"standby": plan.RoleCount(model.RoleStandby),
		"ibl":     plan.RoleCount(model.RoleIBL),
	})

	p.recordSolve(metrics.SolveResult{
		PlanID:    plan.ID,
		NightOf:   night,
		FleetSize: len(fleet),
		Assigned: map[model.Role]int{
			model.RoleService: plan.RoleCount(model.RoleService),
			model.RoleStandby: plan.RoleCount(model.RoleStandby),
			model.RoleIBL:     plan.RoleCount(model.RoleIBL),
		},
		TotalCost: total,
		Duration:  time.Since(start),
		Time:      time.Now(),
	}, plan)

	if p.bus != nil {
		p.bus.Publish(PlanComputed{Plan: plan})
	}
	return plan, nil
}

// detectInfeasibility flags real rows matched to padding columns or to
// sentinel-priced cells. The sentinel keeps the matrix uniform for the
// solver, but an assignment using it is not a valid plan.
func detectInfeasibility(cm *costMatrix, assign []int) *InfeasibleError {
	var units []UnitInfeasibility
	for i := range cm.units {
		j := assign[i]
		s := cm.slots[j]
		sentinel := cm.dense.At(i, j) >= sentinelCost-costEpsilon
		if !s.dummy && !sentinel {
			continue
		}
		u := UnitInfeasibility{
			TrainsetID:    cm.units[i].ID,
			Kind:          InfeasibilityCapacity,
			EligibleRoles: EligibleRoles(cm.elig[i]),
		}
		if len(u.EligibleRoles) == 0 {
			u.Kind = InfeasibilityNoRole
		}
		for _, r := range model.Roles {
			u.Reasons = append(u.Reasons, cm.elig[i][r].Reasons...)
		}
		units = append(units, u)
	}
	if len(units) == 0 {
		return nil
	}
	return &InfeasibleError{Units: units}
}

func (p *Planner) recordSolve(res metrics.SolveResult, plan *model.Plan) {
	if err := p.sink.RecordSolve(res); err != nil {
		p.log.Warnf("record solve metrics: %v", err)
	}
	if plan == nil {
		return
	}
	rec, ok := p.sink.(metrics.UnitRecorder)
	if !ok {
		return
	}
	units := make([]metrics.UnitAssignment, 0, len(plan.Entries))
	for _, e := range plan.Entries {
		if !e.Assigned {
			continue
		}
		units = append(units, metrics.UnitAssignment{
			PlanID:     plan.ID,
			TrainsetID: e.TrainsetID,
			Role:       e.Role,
			Readiness:  e.Cost.Readiness,
			Mileage:    e.Cost.Mileage,
			Shunt:      e.Cost.Shunt,
			Total:      e.Cost.Total,
			Time:       plan.GeneratedAt,
		})
	}
	if err := rec.RecordUnitAssignments(units); err != nil {
		p.log.Warnf("record unit assignments: %v", err)
	}
}

// nopLogger keeps the planner usable without a configured logger.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
