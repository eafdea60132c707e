// Package mqtt publishes finished plans to the depot message broker so the
// reporting and visualization collaborators can pick them up.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/opendepot/induction/core/model"
)

// Config holds broker settings for plan publication.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Topic    string `json:"topic"`
	Username string `json:"username"`
	Password string `json:"password"`
	QoS      byte   `json:"qos"`
	Retained bool   `json:"retained"`
}

// SetDefaults fills topic and client id when unset.
func (c *Config) SetDefaults() {
	if c.Topic == "" {
		c.Topic = "induction/plan"
	}
	if c.ClientID == "" {
		c.ClientID = "induction-planner"
	}
}

// Validate checks mandatory fields when publication is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("mqtt broker is required when publication is enabled")
	}
	if c.QoS > 2 {
		return fmt.Errorf("invalid qos %d", c.QoS)
	}
	return nil
}

// PlanPublisher sends a finished plan to downstream consumers.
type PlanPublisher interface {
	PublishPlan(ctx context.Context, plan *model.Plan) error
	Close() error
}

// PahoPublisher publishes plans as retained JSON messages over MQTT.
type PahoPublisher struct {
	client pahomqtt.Client
	cfg    Config
}

// NewPahoPublisher connects to the broker described by cfg.
func NewPahoPublisher(cfg Config) (*PahoPublisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := pahomqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(5 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	client := pahomqtt.NewClient(opts)
	tok := client.Connect()
	if !tok.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect timeout to %s", cfg.Broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return &PahoPublisher{client: client, cfg: cfg}, nil
}

// PublishPlan serializes the plan to JSON and publishes it on the configured
// topic. One message per night; with Retained set, late subscribers still
// receive the current plan.
func (p *PahoPublisher) PublishPlan(ctx context.Context, plan *model.Plan) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	tok := p.client.Publish(p.cfg.Topic, p.cfg.QoS, p.cfg.Retained, payload)
	done := make(chan struct{})
	go func() {
		tok.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return tok.Error()
	}
}

// Close disconnects from the broker.
func (p *PahoPublisher) Close() error {
	p.client.Disconnect(250)
	return nil
}

// MockPublisher records published plans for tests.
type MockPublisher struct {
	mu    sync.Mutex
	Plans []*model.Plan
	Fail  bool
}

// NewMockPublisher creates an empty MockPublisher.
func NewMockPublisher() *MockPublisher { return &MockPublisher{} }

// PublishPlan stores the plan or fails when configured to.
func (m *MockPublisher) PublishPlan(_ context.Context, plan *model.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("publish failed")
	}
	m.Plans = append(m.Plans, plan)
	return nil
}

// Close implements PlanPublisher.
func (m *MockPublisher) Close() error { return nil }

// Published returns a copy of the recorded plans.
func (m *MockPublisher) Published() []*model.Plan {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Plan, len(m.Plans))
	copy(out, m.Plans)
	return out
}
