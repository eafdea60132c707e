// Package export writes finished plans in the formats consumed by the
// reporting layer: a compact JSON document plus the simple and detailed CSV
// outputs the operations team reviews each morning.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/opendepot/induction/core/model"
)

// WriteJSON writes the plan to w as a single JSON document.
func WriteJSON(w io.Writer, plan *model.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}

// WriteCSV writes the simple per-unit plan: one row per trainset with its
// assigned role and total cost.
func WriteCSV(w io.Writer, plan *model.Plan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"train_id", "role", "assigned", "total_cost"}); err != nil {
		return err
	}
	for _, e := range plan.Entries {
		role := ""
		if e.Assigned {
			role = e.Role.String()
		}
		rec := []string{
			e.TrainsetID,
			role,
			strconv.FormatBool(e.Assigned),
			formatCost(e.Cost.Total),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDetailedCSV writes the full breakdown: sub-costs, the next-best
// alternative and the constraint reasons per unit.
func WriteDetailedCSV(w io.Writer, plan *model.Plan) error {
	cw := csv.NewWriter(w)
	header := []string{
		"train_id", "role", "assigned",
		"readiness_cost", "mileage_cost", "shunt_cost", "total_cost",
		"alternative_role", "alternative_delta", "reasons",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, e := range plan.Entries {
		role, altRole, altDelta := "", "", ""
		if e.Assigned {
			role = e.Role.String()
		}
		if e.HasAlternative {
			altRole = e.AlternativeRole.String()
			altDelta = formatCost(e.AlternativeDelta)
		}
		rec := []string{
			e.TrainsetID,
			role,
			strconv.FormatBool(e.Assigned),
			formatCost(e.Cost.Readiness),
			formatCost(e.Cost.Mileage),
			formatCost(e.Cost.Shunt),
			formatCost(e.Cost.Total),
			altRole,
			altDelta,
			strings.Join(e.Reasons, "; "),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCost(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
