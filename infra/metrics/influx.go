package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/opendepot/induction/core/metrics"
	"github.com/opendepot/induction/infra/logger"
)

// InfluxSink writes solve events to an InfluxDB instance using the official
// client, for long-term mileage and plan-quality dashboards.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	client := influxdb2.NewClientWithOptions(url, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// when the health check fails, so a down metrics store never blocks planning.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordSolve writes a summary point per solve.
func (s *InfluxSink) RecordSolve(res coremetrics.SolveResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("induction_solve").
		AddTag("infeasible", strconv.FormatBool(res.Infeasible)).
		AddTag("plan_id", res.PlanID).
		AddField("fleet_size", res.FleetSize).
		AddField("total_cost", res.TotalCost).
		AddField("duration_ms", res.Duration.Milliseconds()).
		SetTime(res.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordUnitAssignments writes one point per assigned unit.
func (s *InfluxSink) RecordUnitAssignments(units []coremetrics.UnitAssignment) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, u := range units {
		p := write.NewPointWithMeasurement("induction_assignment").
			AddTag("trainset_id", u.TrainsetID).
			AddTag("role", u.Role.String()).
			AddTag("plan_id", u.PlanID).
			AddField("readiness_cost", u.Readiness).
			AddField("mileage_cost", u.Mileage).
			AddField("shunt_cost", u.Shunt).
			AddField("total_cost", u.Total).
			SetTime(u.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close shuts down the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
