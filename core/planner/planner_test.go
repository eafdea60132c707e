package planner

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/opendepot/induction/core/model"
)

// scenarioFleet is the reference night used across planner tests:
// A has an expired certificate, B is far below its mileage target,
// C is ahead of target, D is exactly on target.
func scenarioFleet() []model.Trainset {
	a := cleanUnit("TS-A")
	a.FitnessExpiry = testNight.Add(-72 * time.Hour)
	b := cleanUnit("TS-B")
	b.MileageKm = b.TargetMileageKm - 8000
	c := cleanUnit("TS-C")
	c.MileageKm = c.TargetMileageKm + 5000
	d := cleanUnit("TS-D")
	return []model.Trainset{a, b, c, d}
}

func TestPlan_Scenario(t *testing.T) {
	pl := New(nil, nil, nil)
	fleet := scenarioFleet()
	cfg := testConfig()

	p, err := pl.Plan(context.Background(), fleet, cfg, testNight)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	if got := p.Entry("TS-B").Role; got != model.RoleService {
		t.Fatalf("low-mileage unit B must run Service, got %s", got)
	}
	if got := p.Entry("TS-A").Role; got != model.RoleIBL {
		t.Fatalf("expired-cert unit A must fall through to IBL, got %s", got)
	}
	if got := p.Entry("TS-D").Role; got != model.RoleService {
		t.Fatalf("on-target unit D must take the second Service slot, got %s", got)
	}
	if got := p.Entry("TS-C").Role; got != model.RoleStandby {
		t.Fatalf("over-mileage unit C must idle on Standby, got %s", got)
	}

	want := bruteForceBest(fleet, cfg)
	if math.Abs(p.TotalCost-want) > costEpsilon {
		t.Fatalf("plan cost %v differs from brute-force optimum %v", p.TotalCost, want)
	}
}

func TestPlan_TotalityAndCapacity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	fleet := make([]model.Trainset, 8)
	for i := range fleet {
		ts := cleanUnit(string(rune('A' + i)))
		ts.MileageKm = ts.TargetMileageKm + float64(rng.Intn(20001)-10000)
		ts.Bay = rng.Intn(12)
		fleet[i] = ts
	}
	cfg := testConfig()
	cfg.Capacities = Capacities{Service: 3, Standby: 2, IBL: 3}

	p, err := New(nil, nil, nil).Plan(context.Background(), fleet, cfg, testNight)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(p.Entries) != len(fleet) {
		t.Fatalf("expected %d entries got %d", len(fleet), len(p.Entries))
	}
	for _, ts := range fleet {
		e := p.Entry(ts.ID)
		if e == nil || !e.Assigned {
			t.Fatalf("unit %s missing from plan", ts.ID)
		}
	}
	if n := p.RoleCount(model.RoleService); n > cfg.Capacities.Service {
		t.Fatalf("Service over capacity: %d", n)
	}
	if n := p.RoleCount(model.RoleStandby); n > cfg.Capacities.Standby {
		t.Fatalf("Standby over capacity: %d", n)
	}
	if n := p.RoleCount(model.RoleIBL); n > cfg.Capacities.IBL {
		t.Fatalf("IBL over capacity: %d", n)
	}
}

func TestPlan_OptimalVsBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	cfg := testConfig()
	cfg.Capacities = Capacities{Service: 3, Standby: 2, IBL: 1}
	cfg.ServiceBay = 1
	cfg.StandbyBay = 6
	cfg.IBLBay = 12

	for trial := 0; trial < 20; trial++ {
		fleet := make([]model.Trainset, 6)
		for i := range fleet {
			ts := cleanUnit(string(rune('A' + i)))
			ts.MileageKm = ts.TargetMileageKm + float64(rng.Intn(30001)-15000)
			ts.Bay = rng.Intn(14)
			fleet[i] = ts
		}

		p, err := New(nil, nil, nil).Plan(context.Background(), fleet, cfg, testNight)
		if err != nil {
			t.Fatalf("trial %d: plan: %v", trial, err)
		}
		want := bruteForceBest(fleet, cfg)
		if math.Abs(p.TotalCost-want) > costEpsilon {
			t.Fatalf("trial %d: plan cost %v, brute force %v", trial, p.TotalCost, want)
		}
	}
}

func TestPlan_Deterministic(t *testing.T) {
	// Identical units everywhere: every matching is optimal, so only the
	// documented tie-break keeps reruns byte-identical.
	fleet := make([]model.Trainset, 6)
	for i := range fleet {
		fleet[i] = cleanUnit(string(rune('A' + i)))
	}
	cfg := testConfig()
	cfg.Capacities = Capacities{Service: 3, Standby: 2, IBL: 1}

	pl := New(nil, nil, nil)
	first, err := pl.Plan(context.Background(), fleet, cfg, testNight)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	for run := 0; run < 5; run++ {
		again, err := pl.Plan(context.Background(), fleet, cfg, testNight)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if !reflect.DeepEqual(first.Entries, again.Entries) {
			t.Fatalf("run %d produced a different plan:\n%v\nvs\n%v", run, first.Entries, again.Entries)
		}
		if first.TotalCost != again.TotalCost {
			t.Fatalf("run %d total cost diverged", run)
		}
	}
}

func TestPlan_AlternativeDelta(t *testing.T) {
	p, err := New(nil, nil, nil).Plan(context.Background(), scenarioFleet(), testConfig(), testNight)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	b := p.Entry("TS-B")
	if !b.HasAlternative {
		t.Fatal("B is eligible for all roles, expected an alternative")
	}
	if b.AlternativeRole != model.RoleStandby {
		t.Fatalf("expected Standby alternative for B, got %s", b.AlternativeRole)
	}
	if math.Abs(b.AlternativeDelta-0.8) > costEpsilon {
		t.Fatalf("expected delta 0.8 (idle mileage penalty), got %v", b.AlternativeDelta)
	}

	a := p.Entry("TS-A")
	if a.HasAlternative {
		t.Fatal("A is only IBL-eligible, expected no alternative")
	}
	if len(a.Reasons) == 0 {
		t.Fatal("A must carry the refused-role reasons")
	}
}

func TestPlan_InfeasibleSinkExhausted(t *testing.T) {
	cfg := testConfig()
	cfg.Capacities = Capacities{Service: 1, Standby: 0, IBL: 0}
	expired := cleanUnit("TS-A")
	expired.FitnessExpiry = testNight.Add(-time.Hour)

	_, err := New(nil, nil, nil).Plan(context.Background(), []model.Trainset{expired}, cfg, testNight)
	var infeasible *InfeasibleError
	if !errors.As(err, &infeasible) {
		t.Fatalf("expected InfeasibleError, got %v", err)
	}
	if len(infeasible.Units) != 1 || infeasible.Units[0].TrainsetID != "TS-A" {
		t.Fatalf("expected TS-A reported, got %+v", infeasible.Units)
	}
	if infeasible.Units[0].Kind != InfeasibilityCapacity {
		t.Fatalf("expected capacity shortfall, got %s", infeasible.Units[0].Kind)
	}
}

func TestPlan_InfeasibleFleetOverflow(t *testing.T) {
	cfg := testConfig()
	cfg.Capacities = Capacities{Service: 1, Standby: 1, IBL: 0}
	fleet := []model.Trainset{cleanUnit("TS-A"), cleanUnit("TS-B"), cleanUnit("TS-C")}

	_, err := New(nil, nil, nil).Plan(context.Background(), fleet, cfg, testNight)
	var infeasible *InfeasibleError
	if !errors.As(err, &infeasible) {
		t.Fatalf("expected InfeasibleError, got %v", err)
	}
	if len(infeasible.Units) != 1 {
		t.Fatalf("expected exactly one overflow unit, got %+v", infeasible.Units)
	}
}

func TestPlan_SpareCapacityReported(t *testing.T) {
	fleet := []model.Trainset{cleanUnit("TS-A"), cleanUnit("TS-B")}
	p, err := New(nil, nil, nil).Plan(context.Background(), fleet, testConfig(), testNight)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	spare := 0
	for _, n := range p.SpareCapacity {
		spare += n
	}
	if spare != 2 {
		t.Fatalf("expected 2 spare slots reported, got %v", p.SpareCapacity)
	}
}

func TestPlan_ConfigErrors(t *testing.T) {
	pl := New(nil, nil, nil)
	fleet := []model.Trainset{cleanUnit("TS-A")}

	cases := []struct {
		name  string
		fleet []model.Trainset
		mut   func(*Config)
	}{
		{"negative capacity", fleet, func(c *Config) { c.Capacities.Service = -1 }},
		{"no slots", fleet, func(c *Config) { c.Capacities = Capacities{} }},
		{"negative weight", fleet, func(c *Config) { c.Weights.Mileage = -2 }},
		{"empty fleet", nil, func(c *Config) {}},
		{"duplicate ids", []model.Trainset{cleanUnit("TS-A"), cleanUnit("TS-A")}, func(c *Config) {}},
		{"cleaning overbooked", fleet, func(c *Config) { c.CleaningBays = 0 }},
	}
	for _, tc := range cases {
		cfg := testConfig()
		tc.mut(&cfg)
		f := tc.fleet
		if tc.name == "cleaning overbooked" {
			ts := cleanUnit("TS-A")
			ts.NeedsCleaning = true
			ts.CleaningBay = 1
			f = []model.Trainset{ts}
		}
		_, err := pl.Plan(context.Background(), f, cfg, testNight)
		var confErr *ConfigError
		if !errors.As(err, &confErr) {
			t.Fatalf("%s: expected ConfigError, got %v", tc.name, err)
		}
	}
}

func TestPlan_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(nil, nil, nil).Plan(ctx, scenarioFleet(), testConfig(), testNight)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// bruteForceBest enumerates every capacity- and eligibility-respecting role
// assignment and returns the cheapest total cost.
func bruteForceBest(fleet []model.Trainset, cfg Config) float64 {
	type state struct {
		remaining Capacities
		total     float64
	}
	best := math.Inf(1)
	var recurse func(i int, st state)
	recurse = func(i int, st state) {
		if st.total >= best {
			return
		}
		if i == len(fleet) {
			best = st.total
			return
		}
		elig := EvaluateRoles(fleet[i], cfg, testNight)
		for _, r := range model.Roles {
			if !elig[r].OK {
				continue
			}
			next := st
			switch r {
			case model.RoleService:
				if next.remaining.Service == 0 {
					continue
				}
				next.remaining.Service--
			case model.RoleStandby:
				if next.remaining.Standby == 0 {
					continue
				}
				next.remaining.Standby--
			case model.RoleIBL:
				if next.remaining.IBL == 0 {
					continue
				}
				next.remaining.IBL--
			}
			next.total += Cost(fleet[i], r, cfg, testNight).Total
			recurse(i+1, next)
		}
	}
	recurse(0, state{remaining: cfg.Capacities})
	return best
}
