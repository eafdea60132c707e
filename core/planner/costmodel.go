package planner

import (
	"math"
	"time"

	"github.com/opendepot/induction/core/model"
)

// Readiness risk ladder. A fully clean unit scores zero; heavier defects
// dominate lighter ones so the ladder stays monotonic in risk.
const (
	riskBlocked      = 5.0 // job cards beyond the standby limit
	riskCertMarginal = 4.0 // certificate expired or only valid through grace
	riskJobCards     = 2.0 // cards open but under the standby limit
	riskCleaning     = 1.0 // cleaning due without a reserved bay
)

func readinessRisk(ts model.Trainset, cfg Config, night time.Time) float64 {
	grace := time.Duration(cfg.CertGraceHours) * time.Hour
	switch {
	case ts.OpenJobCards >= cfg.JobCardStandbyLimit:
		return riskBlocked
	case !ts.FitnessValidAt(night, grace):
		return riskCertMarginal
	case ts.OpenJobCards >= cfg.JobCardServiceLimit:
		return riskJobCards
	case ts.NeedsCleaning && !ts.HasCleaningSlot():
		return riskCleaning
	}
	return 0
}

// mileageDeviation is the signed distance from the mileage target, in bands.
// Positive means the unit has run ahead of its target.
func mileageDeviation(ts model.Trainset, cfg Config) float64 {
	return (ts.MileageKm - ts.TargetMileageKm) / cfg.MileageBandKm
}

func roleBay(role model.Role, cfg Config) int {
	switch role {
	case model.RoleService:
		return cfg.ServiceBay
	case model.RoleStandby:
		return cfg.StandbyBay
	default:
		return cfg.IBLBay
	}
}

// Cost computes the weighted cost of pairing a trainset with a role. The
// result is finite, non-negative and exactly reproducible for fixed inputs.
// Callers only invoke it for eligible pairs; ineligible pairs are priced by
// the matrix builder's sentinel instead.
func Cost(ts model.Trainset, role model.Role, cfg Config, night time.Time) model.CostBreakdown {
	risk := readinessRisk(ts, cfg, night)
	var readiness float64
	switch role {
	case model.RoleService:
		readiness = risk
	case model.RoleStandby:
		// Standby tolerates marginal units better than revenue service.
		readiness = risk / 2
	case model.RoleIBL:
		readiness = 0
	}

	dev := mileageDeviation(ts, cfg)
	var mileage float64
	if role == model.RoleService {
		// Service accumulates mileage: expensive for units ahead of target.
		mileage = math.Max(0, dev)
	} else {
		// Idle roles waste the running budget of units behind target.
		mileage = math.Max(0, -dev)
	}

	shunt := math.Abs(float64(ts.Bay-roleBay(role, cfg))) * cfg.ShuntCostPerBay

	w := cfg.Weights
	total := w.Readiness*readiness + w.Mileage*mileage + w.Shunt*shunt
	if role == model.RoleService && ts.BrandingPriority > 0 {
		// Branded rakes earn exposure in service; discount but never below zero.
		total = math.Max(0, total-w.Branding*ts.BrandingPriority)
	}

	return model.CostBreakdown{
		Readiness: readiness,
		Mileage:   mileage,
		Shunt:     shunt,
		Total:     total,
	}
}
