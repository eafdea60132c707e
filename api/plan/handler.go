// Package plan exposes the planning core over a small JSON HTTP API:
// the latest plan, the fleet with eligibility, and on-demand solves.
package plan

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/opendepot/induction/core/model"
	"github.com/opendepot/induction/core/planner"
)

// FleetSource returns the current fleet snapshot.
type FleetSource func() ([]model.Trainset, error)

// NewPlanHandler serves the latest computed plan via GET /api/plan.
func NewPlanHandler(store *Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		p := store.Latest()
		if p == nil {
			http.Error(w, "no plan computed yet", http.StatusNotFound)
			return
		}
		writeJSON(w, p)
	})
}

// fleetEntry is the API view of one unit plus its role eligibility.
type fleetEntry struct {
	model.Trainset
	Eligibility map[string]planner.Eligibility `json:"eligibility"`
}

// NewFleetHandler lists the fleet with per-role eligibility via
// GET /api/fleet.
func NewFleetHandler(source FleetSource, cfg planner.Config, night func() time.Time) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		fleet, err := source()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		at := night()
		entries := make([]fleetEntry, 0, len(fleet))
		for _, ts := range fleet {
			elig := planner.EvaluateRoles(ts, cfg, at)
			byName := make(map[string]planner.Eligibility, len(elig))
			for role, e := range elig {
				byName[role.String()] = e
			}
			entries = append(entries, fleetEntry{Trainset: ts, Eligibility: byName})
		}
		writeJSON(w, entries)
	})
}

// solveRequest selects a fleet subset and optionally overrides cost weights.
type solveRequest struct {
	TrainIDs []string         `json:"train_ids"`
	Weights  *planner.Weights `json:"weights,omitempty"`
}

type solveError struct {
	Error string                      `json:"error"`
	Units []planner.UnitInfeasibility `json:"units,omitempty"`
}

// NewSolveHandler runs a solve for a submitted fleet subset via
// POST /api/solve. Infeasibility is reported as a structured 422 response.
func NewSolveHandler(pl *planner.Planner, source FleetSource, cfg planner.Config, night func() time.Time) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req solveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		fleet, err := source()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if len(req.TrainIDs) > 0 {
			want := make(map[string]bool, len(req.TrainIDs))
			for _, id := range req.TrainIDs {
				want[id] = true
			}
			var subset []model.Trainset
			for _, ts := range fleet {
				if want[ts.ID] {
					subset = append(subset, ts)
				}
			}
			fleet = subset
		}
		if len(fleet) == 0 {
			http.Error(w, "no matching trainsets", http.StatusBadRequest)
			return
		}
		if req.Weights != nil {
			cfg.Weights = *req.Weights
		}

		p, err := pl.Plan(r.Context(), fleet, cfg, night())
		if err != nil {
			var infeasible *planner.InfeasibleError
			var confErr *planner.ConfigError
			switch {
			case errors.As(err, &infeasible):
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnprocessableEntity)
				_ = json.NewEncoder(w).Encode(solveError{Error: infeasible.Error(), Units: infeasible.Units})
			case errors.As(err, &confErr):
				http.Error(w, confErr.Error(), http.StatusBadRequest)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}
		writeJSON(w, p)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
