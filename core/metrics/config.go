package metrics

import "github.com/opendepot/induction/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddr is the listen address of the /metrics endpoint, empty
	// to disable the server.
	PrometheusAddr string `json:"prometheus_addr"`
}
