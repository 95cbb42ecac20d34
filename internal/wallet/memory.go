package wallet

import (
	"context"
	"sync"
)

// Memory is an in-process ledger with the same semantics as Postgres. It
// backs tests and local development without a database.
type Memory struct {
	mu       sync.Mutex
	balances map[string]float64
}

func NewMemory() *Memory {
	return &Memory{balances: make(map[string]float64)}
}

func (m *Memory) Debit(_ context.Context, walletID string, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	balance, ok := m.balances[walletID]
	if !ok || balance < amount {
		return 0, ErrInsufficientFunds
	}
	balance -= amount
	m.balances[walletID] = balance
	return balance, nil
}

func (m *Memory) Credit(_ context.Context, walletID string, amount float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if amount <= 0 {
		return m.balances[walletID], nil
	}
	balance := m.balances[walletID] + amount
	m.balances[walletID] = balance
	return balance, nil
}

func (m *Memory) Balance(_ context.Context, walletID string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[walletID], nil
}
