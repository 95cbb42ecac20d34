// Package events publishes settlement facts for downstream consumers
// (marketplace activity feeds, analytics). Publishing is best-effort and
// never blocks or fails a settlement.
package events

import (
	"context"
	"time"
)

// RoundSettled is emitted once per resolved round.
type RoundSettled struct {
	RoundID   string    `json:"round_id"`
	WalletID  string    `json:"wallet_id"`
	GameID    string    `json:"game_id"`
	Stake     float64   `json:"stake"`
	Payout    float64   `json:"payout"`
	SettledAt time.Time `json:"settled_at"`
}

type Publisher interface {
	PublishRoundSettled(ctx context.Context, ev RoundSettled) error
	Close() error
}

// Noop discards events; used when no brokers are configured.
type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) PublishRoundSettled(context.Context, RoundSettled) error { return nil }
func (Noop) Close() error                                            { return nil }

// Multi fans an event out to several publishers (e.g. Kafka plus the
// in-process websocket feed). The first error wins but every publisher runs.
type Multi []Publisher

func (m Multi) PublishRoundSettled(ctx context.Context, ev RoundSettled) error {
	var first error
	for _, p := range m {
		if err := p.PublishRoundSettled(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m Multi) Close() error {
	var first error
	for _, p := range m {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
