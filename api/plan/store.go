package plan

import (
	"context"
	"sync"

	"github.com/opendepot/induction/core/model"
	"github.com/opendepot/induction/core/planner"
	"github.com/opendepot/induction/internal/eventbus"
)

// Store keeps the most recent plan for the API handlers.
type Store struct {
	mu     sync.RWMutex
	latest *model.Plan
}

// NewStore returns an empty Store.
func NewStore() *Store { return &Store{} }

// Latest returns the most recent plan, or nil when none was computed yet.
func (s *Store) Latest() *model.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Set replaces the stored plan.
func (s *Store) Set(p *model.Plan) {
	s.mu.Lock()
	s.latest = p
	s.mu.Unlock()
}

// Watch updates the store from PlanComputed events until the context ends.
func (s *Store) Watch(ctx context.Context, bus eventbus.EventBus) {
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			if pc, ok := ev.(planner.PlanComputed); ok {
				s.Set(pc.Plan)
			}
		}
	}
}
