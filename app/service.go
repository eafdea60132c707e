package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/opendepot/induction/api/plan"
	"github.com/opendepot/induction/config"
	coremetrics "github.com/opendepot/induction/core/metrics"
	"github.com/opendepot/induction/core/model"
	"github.com/opendepot/induction/core/planner"
	"github.com/opendepot/induction/infra/ingest"
	"github.com/opendepot/induction/infra/logger"
	"github.com/opendepot/induction/infra/metrics"
	"github.com/opendepot/induction/infra/mqtt"
	"github.com/opendepot/induction/internal/eventbus"
)

// Service wires the planner core to its adapters: fleet ingestion, the plan
// API, metrics sinks and optional MQTT plan publication.
type Service struct {
	Planner *planner.Planner

	cfg       *config.Config
	bus       *eventbus.Bus
	store     *plan.Store
	publisher mqtt.PlanPublisher
	log       logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sinks: %w", err)
	}

	bus := eventbus.New()
	svc := &Service{
		Planner: planner.New(logger.New("planner"), sink, bus),
		cfg:     cfg,
		bus:     bus,
		store:   plan.NewStore(),
		log:     logg,
	}

	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.publisher = pub
	}
	return svc, nil
}

// SolveNight loads the configured fleet snapshot, runs one solve and pushes
// the plan to the store and, when enabled, the broker.
func (s *Service) SolveNight(ctx context.Context) (*model.Plan, error) {
	fleet, err := ingest.LoadFleet(s.cfg.Fleet.CSVPath)
	if err != nil {
		return nil, err
	}
	night, err := s.cfg.Fleet.Night()
	if err != nil {
		return nil, err
	}
	p, err := s.Planner.Plan(ctx, fleet, s.cfg.Planner, night)
	if err != nil {
		return nil, err
	}
	s.store.Set(p)
	if s.publisher != nil {
		if err := s.publisher.PublishPlan(ctx, p); err != nil {
			s.log.Errorf("publish plan %s: %v", p.ID, err)
		}
	}
	return p, nil
}

// Run computes the nightly plan, then serves the plan API (and the
// Prometheus endpoint when configured) until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	go s.store.Watch(ctx, s.bus)

	if _, err := s.SolveNight(ctx); err != nil {
		// Infeasibility is a reportable state, not a startup failure: the
		// API stays up so operators can inspect the fleet and re-solve.
		s.log.Errorf("initial solve: %v", err)
	}

	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	night := func() time.Time {
		t, err := s.cfg.Fleet.Night()
		if err != nil {
			return time.Now()
		}
		return t
	}
	fleetSource := func() ([]model.Trainset, error) {
		return ingest.LoadFleet(s.cfg.Fleet.CSVPath)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/plan", plan.NewPlanHandler(s.store))
	mux.Handle("/api/fleet", plan.NewFleetHandler(fleetSource, s.cfg.Planner, night))
	mux.Handle("/api/solve", plan.NewSolveHandler(s.Planner, fleetSource, s.cfg.Planner, night))

	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("plan API listening on %s", s.cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.publisher != nil {
		return s.publisher.Close()
	}
	return nil
}
