package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/opendepot/induction/core/metrics"
	"github.com/opendepot/induction/core/planner"
	"github.com/opendepot/induction/infra/mqtt"
)

// Config is the full service configuration for one planning deployment.
type Config struct {
	Planner planner.Config `json:"planner"`
	Metrics metrics.Config `json:"metrics"`
	MQTT    mqtt.Config    `json:"mqtt"`
	API     APIConfig      `json:"api"`
	Fleet   FleetConfig    `json:"fleet"`
}

// APIConfig holds the plan API listener settings.
type APIConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies the default listen address.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// FleetConfig locates the nightly fleet snapshot.
type FleetConfig struct {
	// CSVPath is the fleet snapshot export to plan from.
	CSVPath string `json:"csv_path"`
	// NightOf optionally pins the planning date (2006-01-02). Empty means
	// the current date; pinning it keeps replays reproducible.
	NightOf string `json:"night_of"`
}

// Night resolves the planning instant for this configuration.
func (c FleetConfig) Night() (time.Time, error) {
	if c.NightOf == "" {
		return time.Now(), nil
	}
	t, err := time.Parse("2006-01-02", c.NightOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid night_of %q: %w", c.NightOf, err)
	}
	return t, nil
}

// Validate checks the fleet section.
func (c FleetConfig) Validate() error {
	if c.CSVPath == "" {
		return fmt.Errorf("fleet csv_path is required")
	}
	_, err := c.Night()
	return err
}

// Load reads the configuration from a YAML or JSON file, applies environment
// overrides (IND_ prefix, __ as separator) and validates every section.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("IND_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ind_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Planner.SetDefaults()
	cfg.MQTT.SetDefaults()
	cfg.API.SetDefaults()
	if err := cfg.Planner.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.MQTT.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Fleet.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
