package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `planner:
  capacities:
    service: 12
    standby: 3
    ibl: 5
  cleaning_bays: 2
metrics:
  sinks:
    - type: nop
mqtt:
  enabled: false
fleet:
  csv_path: testdata/fleet.csv
  night_of: "2025-11-03"
`

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Planner.Capacities.Service)
	assert.Equal(t, 3, cfg.Planner.Capacities.Standby)
	assert.Equal(t, 5, cfg.Planner.Capacities.IBL)
	// Defaults fill in what the file omits.
	assert.Equal(t, 10.0, cfg.Planner.Weights.Readiness)
	assert.Equal(t, ":8080", cfg.API.Addr)
	assert.Equal(t, "induction/plan", cfg.MQTT.Topic)

	night, err := cfg.Fleet.Night()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC), night)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("IND_API__ADDR", ":9999")
	t.Setenv("IND_FLEET__CSV_PATH", "override.csv")

	cfg, err := Load(writeConfig(t, "config.yaml", sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.API.Addr)
	assert.Equal(t, "override.csv", cfg.Fleet.CSVPath)
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name string
		file string
		data string
	}{
		{"missing csv path", "config.yaml", "planner:\n  capacities:\n    service: 1\n"},
		{"bad night", "config.yaml", "planner:\n  capacities:\n    service: 1\nfleet:\n  csv_path: f.csv\n  night_of: nope\n"},
		{"no capacity", "config.yaml", "fleet:\n  csv_path: f.csv\n"},
		{"unsupported format", "config.toml", "x = 1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.file, tc.data))
			assert.Error(t, err)
		})
	}
}

func TestLoad_JSON(t *testing.T) {
	data := `{"planner":{"capacities":{"service":4,"standby":2,"ibl":2}},"fleet":{"csv_path":"f.csv"}}`
	cfg, err := Load(writeConfig(t, "config.json", data))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Planner.Capacities.Service)
}
