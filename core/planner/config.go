package planner

import "fmt"

// Weights are the multipliers applied to the three sub-costs. Branding is an
// optional discount applied to Service pairings of branded rakes.
type Weights struct {
	Readiness float64 `json:"readiness"`
	Mileage   float64 `json:"mileage"`
	Shunt     float64 `json:"shunt"`
	Branding  float64 `json:"branding"`
}

// Capacities fixes the number of slots per role for the night.
type Capacities struct {
	Service int `json:"service"`
	Standby int `json:"standby"`
	IBL     int `json:"ibl"`
}

// Total returns the summed slot count across all roles.
func (c Capacities) Total() int { return c.Service + c.Standby + c.IBL }

// Config carries every knob a solve depends on. It is passed explicitly into
// each component so solves stay reentrant; nothing reads ambient state.
type Config struct {
	Capacities Capacities `json:"capacities"`
	Weights    Weights    `json:"weights"`

	// JobCardServiceLimit is the exclusive upper bound of open job cards a
	// unit may carry and still enter Service. The default of 1 means only
	// card-free units qualify.
	JobCardServiceLimit int `json:"job_card_service_limit"`
	// JobCardStandbyLimit is the exclusive upper bound for Standby.
	JobCardStandbyLimit int `json:"job_card_standby_limit"`

	// CertGraceHours extends certificate validity past nominal expiry.
	CertGraceHours int `json:"cert_grace_hours"`

	// CleaningBays caps how many units may hold a cleaning reservation.
	CleaningBays int `json:"cleaning_bays"`

	// MileageBandKm normalizes mileage deviation from target.
	MileageBandKm float64 `json:"mileage_band_km"`
	// ShuntCostPerBay prices one bay of physical movement.
	ShuntCostPerBay float64 `json:"shunt_cost_per_bay"`

	// HomeBays locate the head bay of each role's stabling area.
	ServiceBay int `json:"service_bay"`
	StandbyBay int `json:"standby_bay"`
	IBLBay     int `json:"ibl_bay"`
}

// SetDefaults applies the weights and thresholds used by operations when the
// configuration leaves them unset.
func (c *Config) SetDefaults() {
	if c.Weights == (Weights{}) {
		c.Weights = Weights{Readiness: 10, Mileage: 1, Shunt: 0.5, Branding: 0.25}
	}
	if c.JobCardServiceLimit == 0 {
		c.JobCardServiceLimit = 1
	}
	if c.JobCardStandbyLimit == 0 {
		c.JobCardStandbyLimit = 5
	}
	if c.MileageBandKm == 0 {
		c.MileageBandKm = 10000
	}
	if c.ShuntCostPerBay == 0 {
		c.ShuntCostPerBay = 1
	}
}

// Validate reports configuration errors that make a solve meaningless.
// Validation failures are fatal: the solve must not proceed.
func (c Config) Validate() error {
	if c.Capacities.Service < 0 || c.Capacities.Standby < 0 || c.Capacities.IBL < 0 {
		return &ConfigError{Field: "capacities", Reason: "slot counts must be non-negative"}
	}
	if c.Capacities.Total() == 0 {
		return &ConfigError{Field: "capacities", Reason: "at least one slot is required"}
	}
	if c.Weights.Readiness < 0 || c.Weights.Mileage < 0 || c.Weights.Shunt < 0 || c.Weights.Branding < 0 {
		return &ConfigError{Field: "weights", Reason: "weights must be non-negative"}
	}
	if c.JobCardServiceLimit <= 0 || c.JobCardStandbyLimit <= 0 {
		return &ConfigError{Field: "job_card_limits", Reason: "limits must be positive"}
	}
	if c.JobCardStandbyLimit < c.JobCardServiceLimit {
		return &ConfigError{Field: "job_card_limits", Reason: "standby limit below service limit"}
	}
	if c.CertGraceHours < 0 {
		return &ConfigError{Field: "cert_grace_hours", Reason: "grace period must be non-negative"}
	}
	if c.CleaningBays < 0 {
		return &ConfigError{Field: "cleaning_bays", Reason: "bay count must be non-negative"}
	}
	if c.MileageBandKm <= 0 {
		return &ConfigError{Field: "mileage_band_km", Reason: "band must be positive"}
	}
	if c.ShuntCostPerBay < 0 {
		return &ConfigError{Field: "shunt_cost_per_bay", Reason: "cost must be non-negative"}
	}
	return nil
}

// ConfigError marks a malformed configuration detected before solving.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid planner config: %s: %s", e.Field, e.Reason)
}
