// Package ingest loads nightly fleet snapshots from CSV exports of the
// maintenance management system. It is a thin adapter: it only maps records
// onto core/model.Trainset and never applies business rules.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/opendepot/induction/core/model"
)

// Columns the fleet export must carry. Optional columns default to zero
// values (no cleaning need, no branding, fleet-average target).
var requiredColumns = []string{"train_id", "fitness_expiry", "open_job_cards", "mileage_km", "bay"}

const (
	dateLayout = "2006-01-02"
)

// LoadFleet reads a fleet snapshot CSV from path.
func LoadFleet(path string) ([]model.Trainset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fleet csv: %w", err)
	}
	defer f.Close()
	fleet, err := ReadFleet(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fleet, nil
}

// ReadFleet parses a fleet snapshot from r. The first record must be a
// header row; column order is free.
func ReadFleet(r io.Reader) ([]model.Trainset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var fleet []model.Trainset
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ts, err := parseRecord(rec, col)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		fleet = append(fleet, ts)
	}
	return fleet, nil
}

func parseRecord(rec []string, col map[string]int) (model.Trainset, error) {
	get := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	ts := model.Trainset{ID: get("train_id"), CleaningBay: -1}
	if ts.ID == "" {
		return ts, fmt.Errorf("empty train_id")
	}

	expiry, err := parseDate(get("fitness_expiry"))
	if err != nil {
		return ts, fmt.Errorf("fitness_expiry: %w", err)
	}
	ts.FitnessExpiry = expiry

	if ts.OpenJobCards, err = strconv.Atoi(get("open_job_cards")); err != nil {
		return ts, fmt.Errorf("open_job_cards: %w", err)
	}
	if ts.MileageKm, err = strconv.ParseFloat(get("mileage_km"), 64); err != nil {
		return ts, fmt.Errorf("mileage_km: %w", err)
	}
	if ts.Bay, err = strconv.Atoi(get("bay")); err != nil {
		return ts, fmt.Errorf("bay: %w", err)
	}

	if v := get("target_mileage_km"); v != "" {
		if ts.TargetMileageKm, err = strconv.ParseFloat(v, 64); err != nil {
			return ts, fmt.Errorf("target_mileage_km: %w", err)
		}
	} else {
		ts.TargetMileageKm = ts.MileageKm
	}
	if v := get("needs_cleaning"); v != "" {
		if ts.NeedsCleaning, err = parseBool(v); err != nil {
			return ts, fmt.Errorf("needs_cleaning: %w", err)
		}
	}
	if v := get("cleaning_bay"); v != "" {
		if ts.CleaningBay, err = strconv.Atoi(v); err != nil {
			return ts, fmt.Errorf("cleaning_bay: %w", err)
		}
	}
	if v := get("branding_priority"); v != "" {
		if ts.BrandingPriority, err = strconv.ParseFloat(v, 64); err != nil {
			return ts, fmt.Errorf("branding_priority: %w", err)
		}
	}
	return ts, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true", "yes":
		return true, nil
	case "0", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}
