package planner

import (
	"testing"
	"time"

	"github.com/opendepot/induction/core/model"
)

func TestCost_CleanUnitOnTargetIsFree(t *testing.T) {
	cfg := testConfig()
	ts := cleanUnit("TS-01") // bay 0, service bay 0

	c := Cost(ts, model.RoleService, cfg, testNight)
	if c.Total != 0 {
		t.Fatalf("expected zero cost for a clean on-target unit, got %+v", c)
	}
}

func TestCost_ReadinessLadder(t *testing.T) {
	cfg := testConfig()

	dirty := cleanUnit("TS-02")
	dirty.NeedsCleaning = true
	carded := cleanUnit("TS-03")
	carded.OpenJobCards = 2
	expired := cleanUnit("TS-04")
	expired.FitnessExpiry = testNight.Add(-time.Hour)
	blocked := cleanUnit("TS-05")
	blocked.OpenJobCards = 9

	// All priced for IBL/Standby context via the Standby half-scale; use
	// Standby so every unit has a defined readiness (Service would be
	// ineligible for some).
	costs := []float64{
		Cost(dirty, model.RoleStandby, cfg, testNight).Readiness,
		Cost(carded, model.RoleStandby, cfg, testNight).Readiness,
		Cost(expired, model.RoleStandby, cfg, testNight).Readiness,
		Cost(blocked, model.RoleStandby, cfg, testNight).Readiness,
	}
	for i := 1; i < len(costs); i++ {
		if costs[i] <= costs[i-1] {
			t.Fatalf("readiness ladder not monotonic: %v", costs)
		}
	}

	if got := Cost(blocked, model.RoleIBL, cfg, testNight).Readiness; got != 0 {
		t.Fatalf("IBL readiness cost must be zero, got %v", got)
	}
}

func TestCost_MileageDirection(t *testing.T) {
	cfg := testConfig() // band 10000

	over := cleanUnit("TS-06")
	over.MileageKm = over.TargetMileageKm + 5000
	under := cleanUnit("TS-07")
	under.MileageKm = under.TargetMileageKm - 5000

	if c := Cost(over, model.RoleService, cfg, testNight); c.Mileage != 0.5 {
		t.Fatalf("over-target Service mileage cost: want 0.5 got %v", c.Mileage)
	}
	if c := Cost(over, model.RoleStandby, cfg, testNight); c.Mileage != 0 {
		t.Fatalf("over-target Standby mileage cost: want 0 got %v", c.Mileage)
	}
	if c := Cost(under, model.RoleService, cfg, testNight); c.Mileage != 0 {
		t.Fatalf("under-target Service mileage cost: want 0 got %v", c.Mileage)
	}
	if c := Cost(under, model.RoleIBL, cfg, testNight); c.Mileage != 0.5 {
		t.Fatalf("under-target IBL mileage cost: want 0.5 got %v", c.Mileage)
	}
}

func TestCost_ShuntDistance(t *testing.T) {
	cfg := testConfig()
	cfg.ServiceBay = 1
	cfg.IBLBay = 12
	cfg.ShuntCostPerBay = 2

	ts := cleanUnit("TS-08")
	ts.Bay = 4

	if c := Cost(ts, model.RoleService, cfg, testNight); c.Shunt != 6 {
		t.Fatalf("want shunt 6 (3 bays x 2), got %v", c.Shunt)
	}
	if c := Cost(ts, model.RoleIBL, cfg, testNight); c.Shunt != 16 {
		t.Fatalf("want shunt 16 (8 bays x 2), got %v", c.Shunt)
	}
	ts.Bay = cfg.ServiceBay
	if c := Cost(ts, model.RoleService, cfg, testNight); c.Shunt != 0 {
		t.Fatalf("already positioned unit must have zero shunt cost, got %v", c.Shunt)
	}
}

func TestCost_BrandingDiscount(t *testing.T) {
	cfg := testConfig()
	cfg.ServiceBay = 2
	branded := cleanUnit("TS-09")
	branded.Bay = 3
	plain := branded
	plain.ID = "TS-10"
	branded.BrandingPriority = 1

	bc := Cost(branded, model.RoleService, cfg, testNight).Total
	pc := Cost(plain, model.RoleService, cfg, testNight).Total
	if bc >= pc {
		t.Fatalf("branding must discount Service: branded %v plain %v", bc, pc)
	}

	// Discount never pushes a cost below zero.
	branded.Bay = cfg.ServiceBay
	branded.BrandingPriority = 100
	if c := Cost(branded, model.RoleService, cfg, testNight).Total; c != 0 {
		t.Fatalf("discounted cost must clamp at zero, got %v", c)
	}
}

func TestCost_Deterministic(t *testing.T) {
	cfg := testConfig()
	ts := cleanUnit("TS-11")
	ts.MileageKm = 123456.789
	ts.OpenJobCards = 2
	ts.Bay = 7

	for _, r := range model.Roles {
		a := Cost(ts, r, cfg, testNight)
		b := Cost(ts, r, cfg, testNight)
		if a != b {
			t.Fatalf("cost for %s not reproducible: %+v vs %+v", r, a, b)
		}
	}
}
