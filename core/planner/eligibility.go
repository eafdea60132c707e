package planner

import (
	"fmt"
	"time"

	"github.com/opendepot/induction/core/model"
)

// ViolationCode identifies a single eligibility rule.
type ViolationCode string

const (
	ViolationCertExpired     ViolationCode = "cert_expired"
	ViolationJobCards        ViolationCode = "job_cards"
	ViolationCleaningPending ViolationCode = "cleaning_pending"
)

// Violation describes one failed eligibility rule for a (unit, role) pair.
type Violation struct {
	Code    ViolationCode `json:"code"`
	Message string        `json:"message"`
}

// Eligibility is the outcome of validating one trainset against one role.
// When OK is false, Reasons lists the violated rules in evaluation order.
type Eligibility struct {
	OK      bool        `json:"ok"`
	Reasons []Violation `json:"reasons,omitempty"`
}

// EvaluateRoles validates a trainset against every role for the given night.
// It is a pure function of the snapshot and configuration. IBL is always
// eligible: it is the sink role, so the returned set is never empty.
func EvaluateRoles(ts model.Trainset, cfg Config, night time.Time) map[model.Role]Eligibility {
	grace := time.Duration(cfg.CertGraceHours) * time.Hour
	certOK := ts.FitnessValidAt(night, grace)

	res := make(map[model.Role]Eligibility, len(model.Roles))

	var service Eligibility
	service.OK = true
	if !certOK {
		service.OK = false
		service.Reasons = append(service.Reasons, Violation{
			Code:    ViolationCertExpired,
			Message: fmt.Sprintf("fitness certificate expired %s", ts.FitnessExpiry.Format("2006-01-02")),
		})
	}
	if ts.OpenJobCards >= cfg.JobCardServiceLimit {
		service.OK = false
		service.Reasons = append(service.Reasons, Violation{
			Code:    ViolationJobCards,
			Message: fmt.Sprintf("%d open job cards (service limit %d)", ts.OpenJobCards, cfg.JobCardServiceLimit),
		})
	}
	if ts.NeedsCleaning && !ts.HasCleaningSlot() {
		service.OK = false
		service.Reasons = append(service.Reasons, Violation{
			Code:    ViolationCleaningPending,
			Message: "cleaning due with no cleaning bay reserved",
		})
	}
	res[model.RoleService] = service

	var standby Eligibility
	standby.OK = true
	if !certOK {
		standby.OK = false
		standby.Reasons = append(standby.Reasons, Violation{
			Code:    ViolationCertExpired,
			Message: fmt.Sprintf("fitness certificate expired %s", ts.FitnessExpiry.Format("2006-01-02")),
		})
	}
	if ts.OpenJobCards >= cfg.JobCardStandbyLimit {
		standby.OK = false
		standby.Reasons = append(standby.Reasons, Violation{
			Code:    ViolationJobCards,
			Message: fmt.Sprintf("%d open job cards (standby limit %d)", ts.OpenJobCards, cfg.JobCardStandbyLimit),
		})
	}
	res[model.RoleStandby] = standby

	res[model.RoleIBL] = Eligibility{OK: true}
	return res
}

// EligibleRoles returns the roles the unit may take, in canonical role order.
func EligibleRoles(elig map[model.Role]Eligibility) []model.Role {
	var roles []model.Role
	for _, r := range model.Roles {
		if elig[r].OK {
			roles = append(roles, r)
		}
	}
	return roles
}
