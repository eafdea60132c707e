package model

import "time"

// Trainset is the immutable snapshot of one train unit for a planning night.
// Instances are built once per night by the ingestion layer and discarded
// after the plan is emitted.
type Trainset struct {
	ID               string    // stable fleet identifier, e.g. "TS-07"
	FitnessExpiry    time.Time // expiry of the fitness certificate
	OpenJobCards     int       // open maintenance job cards
	MileageKm        float64   // cumulative mileage
	TargetMileageKm  float64   // fleet balancing target for this unit
	Bay              int       // current physical stabling bay
	NeedsCleaning    bool      // deep-clean due before re-entering service
	CleaningBay      int       // assigned cleaning bay, -1 when none
	BrandingPriority float64   // exposure weighting for branded rakes, 0 when unbranded
}

// FitnessValidAt reports whether the fitness certificate is still usable at
// the given instant. A grace period extends validity past the nominal expiry.
func (t Trainset) FitnessValidAt(at time.Time, grace time.Duration) bool {
	return !t.FitnessExpiry.Add(grace).Before(at)
}

// HasCleaningSlot reports whether a cleaning bay has been reserved for the
// unit tonight.
func (t Trainset) HasCleaningSlot() bool { return t.CleaningBay >= 0 }
