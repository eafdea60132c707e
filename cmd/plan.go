package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/opendepot/induction/config"
	coremetrics "github.com/opendepot/induction/core/metrics"
	"github.com/opendepot/induction/core/planner"
	"github.com/opendepot/induction/infra/ingest"
	"github.com/opendepot/induction/infra/logger"
	_ "github.com/opendepot/induction/infra/metrics"
	"github.com/opendepot/induction/pkg/export"
)

var (
	planOutput   string
	planFormat   string
	planDetailed bool
	planTimeout  time.Duration
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Solve one night's induction plan and write it out",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planOutput, "output", "o", "", "output file (default stdout)")
	planCmd.Flags().StringVarP(&planFormat, "format", "f", "json", "output format: json or csv")
	planCmd.Flags().BoolVar(&planDetailed, "detailed", false, "include sub-cost breakdown in CSV output")
	planCmd.Flags().DurationVar(&planTimeout, "timeout", 30*time.Second, "solve deadline")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, planTimeout)
	defer cancel()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New("plan-command")

	fleet, err := ingest.LoadFleet(cfg.Fleet.CSVPath)
	if err != nil {
		return err
	}
	night, err := cfg.Fleet.Night()
	if err != nil {
		return err
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return fmt.Errorf("metrics sinks: %w", err)
	}

	pl := planner.New(logg, sink, nil)
	p, err := pl.Plan(ctx, fleet, cfg.Planner, night)
	if err != nil {
		var infeasible *planner.InfeasibleError
		if errors.As(err, &infeasible) {
			for _, u := range infeasible.Units {
				logg.Errorf("unit %s: %s", u.TrainsetID, u.Kind)
			}
		}
		return err
	}

	out := cmd.OutOrStdout()
	if planOutput != "" {
		f, err := os.Create(planOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch planFormat {
	case "json":
		return export.WriteJSON(out, p)
	case "csv":
		if planDetailed {
			return export.WriteDetailedCSV(out, p)
		}
		return export.WriteCSV(out, p)
	default:
		return fmt.Errorf("unknown format %q", planFormat)
	}
}
