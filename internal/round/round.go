// Package round persists the append-only record of every bet: stakes, seed
// material, outcome and status. Rounds are created once, optionally resolved
// once, and never deleted.
package round

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gamehouse/internal/games"
)

// Status is the round lifecycle state. pending_cashout exists only for
// multi-step games; it is the only state where the server seed stays hidden
// and the payout may still change.
type Status string

const (
	StatusResolved       Status = "resolved"
	StatusPendingCashout Status = "pending_cashout"
)

var (
	ErrNotFound        = errors.New("round not found")
	ErrAlreadyResolved = errors.New("round already resolved")
)

// Round is the full record, including the private fields. The server seed
// and raw outcome never serialize directly; external callers get a View.
type Round struct {
	ID               string
	WalletID         string
	GameID           string
	Stake            float64
	Payout           float64
	Multiplier       float64
	ServerSeed       string `json:"-"`
	ServerSeedHash   string
	ClientSeed       string
	Nonce            int64
	Outcome          json.RawMessage `json:"-"`
	VerificationHash string
	Status           Status
	CreatedAt        time.Time
	SettledAt        *time.Time
}

// View is the externally visible projection. The server seed is present if
// and only if the round is resolved, and an open mines round's outcome
// carries no mine-position information.
type View struct {
	ID               string          `json:"round_id"`
	WalletID         string          `json:"wallet_id"`
	GameID           string          `json:"game_id"`
	Stake            float64         `json:"stake"`
	Payout           float64         `json:"payout"`
	Multiplier       float64         `json:"multiplier"`
	ServerSeed       string          `json:"server_seed,omitempty"`
	ServerSeedHash   string          `json:"server_seed_hash"`
	ClientSeed       string          `json:"client_seed"`
	Nonce            int64           `json:"nonce"`
	Outcome          json.RawMessage `json:"outcome"`
	VerificationHash string          `json:"verification_hash"`
	Status           Status          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	SettledAt        *time.Time      `json:"settled_at,omitempty"`
}

// View redacts the round for external consumption.
func (r *Round) View() View {
	settled := r.Status == StatusResolved

	v := View{
		ID:               r.ID,
		WalletID:         r.WalletID,
		GameID:           r.GameID,
		Stake:            r.Stake,
		Payout:           r.Payout,
		Multiplier:       r.Multiplier,
		ServerSeedHash:   r.ServerSeedHash,
		ClientSeed:       r.ClientSeed,
		Nonce:            r.Nonce,
		Outcome:          games.PublicView(r.GameID, r.Outcome, settled),
		VerificationHash: r.VerificationHash,
		Status:           r.Status,
		CreatedAt:        r.CreatedAt,
		SettledAt:        r.SettledAt,
	}
	if settled {
		v.ServerSeed = r.ServerSeed
	}
	return v
}

// Store is the round repository.
type Store interface {
	Create(ctx context.Context, r *Round) error

	// Get returns the full record, private fields included. It is for the
	// settlement engine only; anything leaving the process goes through View.
	Get(ctx context.Context, id string) (*Round, error)

	// Resolve is the single pending_cashout -> resolved transition. The
	// status precondition and the mutation are one conditional update, so a
	// round can never settle twice. Returns ErrAlreadyResolved if the round
	// exists but is not pending.
	Resolve(ctx context.Context, id string, payout, multiplier float64) (*Round, error)
}
