package metrics

import (
	"time"

	"github.com/opendepot/induction/core/model"
)

// SolveResult summarizes one nightly solve for observability purposes.
type SolveResult struct {
	PlanID     string
	NightOf    time.Time
	FleetSize  int
	Assigned   map[model.Role]int
	Unassigned int
	TotalCost  float64
	Duration   time.Duration
	Infeasible bool
	Time       time.Time
}

// MetricsSink records solve results.
type MetricsSink interface {
	RecordSolve(res SolveResult) error
}

// UnitAssignment is the per-unit datapoint of a plan.
type UnitAssignment struct {
	PlanID     string
	TrainsetID string
	Role       model.Role
	Readiness  float64
	Mileage    float64
	Shunt      float64
	Total      float64
	Time       time.Time
}

// UnitRecorder is implemented by sinks able to record per-unit assignments.
type UnitRecorder interface {
	RecordUnitAssignments(units []UnitAssignment) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordSolve(SolveResult) error                { return nil }
func (NopSink) RecordUnitAssignments([]UnitAssignment) error { return nil }
