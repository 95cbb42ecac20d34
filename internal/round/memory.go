package round

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process store for tests and local development.
type Memory struct {
	mu     sync.RWMutex
	rounds map[string]*Round
}

func NewMemory() *Memory {
	return &Memory{rounds: make(map[string]*Round)}
}

func (m *Memory) Create(_ context.Context, r *Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *r
	m.rounds[r.ID] = &stored
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*Round, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rounds[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *Memory) Resolve(_ context.Context, id string, payout, multiplier float64) (*Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rounds[id]
	if !ok {
		return nil, ErrNotFound
	}
	if r.Status != StatusPendingCashout {
		return nil, ErrAlreadyResolved
	}

	now := time.Now()
	r.Payout = payout
	r.Multiplier = multiplier
	r.Status = StatusResolved
	r.SettledAt = &now

	copied := *r
	return &copied, nil
}
