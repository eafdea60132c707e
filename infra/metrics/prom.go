package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/opendepot/induction/core/metrics"
	"github.com/opendepot/induction/core/model"
)

// PromSink records solve events in Prometheus metrics.
type PromSink struct {
	solves   *prometheus.CounterVec
	duration prometheus.Histogram
	roles    *prometheus.GaugeVec
	cost     prometheus.Gauge
}

// NewPromSink registers induction metrics on the default Prometheus
// registerer. The /metrics server is started separately.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "induction_solves_total",
		Help: "Total number of nightly solves",
	}, []string{"infeasible"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "induction_solve_duration_seconds",
		Help:    "Wall-clock duration of a solve",
		Buckets: prometheus.DefBuckets,
	})
	roles := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "induction_assigned_units",
		Help: "Units assigned per role in the latest plan",
	}, []string{"role"})
	cost := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "induction_plan_total_cost",
		Help: "Total cost of the latest plan",
	})

	if err := reg.Register(solves); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			solves = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(roles); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			roles = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(cost); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			cost = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{solves: solves, duration: duration, roles: roles, cost: cost}, nil
}

// RecordSolve updates the solve counters and latest-plan gauges.
func (s *PromSink) RecordSolve(res coremetrics.SolveResult) error {
	s.solves.WithLabelValues(strconv.FormatBool(res.Infeasible)).Inc()
	s.duration.Observe(res.Duration.Seconds())
	if res.Infeasible {
		return nil
	}
	for _, r := range model.Roles {
		s.roles.WithLabelValues(r.String()).Set(float64(res.Assigned[r]))
	}
	s.cost.Set(res.TotalCost)
	return nil
}
