package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opendepot/induction/config"
	"github.com/opendepot/induction/core/model"
	"github.com/opendepot/induction/core/planner"
	"github.com/opendepot/induction/infra/ingest"
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Fleet related commands",
}

var fleetLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the fleet snapshot with role eligibility",
	RunE:  runFleetLs,
}

func init() {
	fleetCmd.AddCommand(fleetLsCmd)
	rootCmd.AddCommand(fleetCmd)
}

func runFleetLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fleet, err := ingest.LoadFleet(cfg.Fleet.CSVPath)
	if err != nil {
		return err
	}
	night, err := cfg.Fleet.Night()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, ts := range fleet {
		elig := planner.EvaluateRoles(ts, cfg.Planner, night)
		var roles []string
		for _, r := range model.Roles {
			if elig[r].OK {
				roles = append(roles, r.String())
			}
		}
		fmt.Fprintf(out, "%s\tbay %d\t%.0f km\teligible: %s\n",
			ts.ID, ts.Bay, ts.MileageKm, strings.Join(roles, ","))
	}
	return nil
}
