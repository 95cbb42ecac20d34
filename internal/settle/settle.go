// Package settle is the control flow for a single bet: validate, debit,
// derive the provably fair outcome, pay out, persist the auditable round.
// Once a debit succeeds, every path either completes the round or refunds
// the stake; there is no terminal state with a debit and neither.
package settle

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gamehouse/internal/events"
	"gamehouse/internal/fair"
	"gamehouse/internal/games"
	"gamehouse/internal/metrics"
	"gamehouse/internal/round"
	"gamehouse/internal/wallet"
)

const DefaultMinBet = 0.01

// Engine orchestrates settlement across the ledger, the fairness protocol,
// the game registry and the round store.
type Engine struct {
	ledger wallet.Ledger
	rounds round.Store
	cache  *round.Cache
	games  *games.Registry
	events events.Publisher
	minBet float64
	log    zerolog.Logger
}

func NewEngine(ledger wallet.Ledger, rounds round.Store, cache *round.Cache, registry *games.Registry, publisher events.Publisher, minBet float64) *Engine {
	if minBet <= 0 {
		minBet = DefaultMinBet
	}
	return &Engine{
		ledger: ledger,
		rounds: rounds,
		cache:  cache,
		games:  registry,
		events: publisher,
		minBet: minBet,
		log:    log.With().Str("component", "settle").Logger(),
	}
}

// BetInput is one bet placement request.
type BetInput struct {
	WalletAddress string        `json:"wallet_address"`
	GameID        string        `json:"game_id"`
	BetAmount     float64       `json:"bet_amount"`
	ClientSeed    string        `json:"client_seed,omitempty"`
	Options       games.Options `json:"options,omitempty"`
}

// Verification is the bundle a player needs to re-verify a round once the
// server seed is revealed.
type Verification struct {
	ServerSeedHash   string `json:"server_seed_hash"`
	ClientSeed       string `json:"client_seed"`
	Nonce            int64  `json:"nonce"`
	VerificationHash string `json:"verification_hash"`
}

// BetReceipt is the settlement response. The server seed is deliberately
// absent: it stays fetchable through the round lookup once the round is
// resolved.
type BetReceipt struct {
	RoundID          string          `json:"round_id"`
	GameID           string          `json:"game_id"`
	Outcome          json.RawMessage `json:"outcome"`
	Bet              float64         `json:"bet"`
	Payout           float64         `json:"payout"`
	PayoutMultiplier float64         `json:"payout_multiplier"`
	NewBalance       float64         `json:"new_balance"`
	Verification     Verification    `json:"verification"`
	RTP              float64         `json:"rtp"`
}

// PlaceBet runs the full settlement sequence. The order is fixed: the debit
// must succeed before any seed is generated, and outcome resolution must
// finish before any credit.
func (e *Engine) PlaceBet(ctx context.Context, in BetInput) (*BetReceipt, error) {
	walletID := strings.ToLower(strings.TrimSpace(in.WalletAddress))
	if walletID == "" {
		return nil, invalidf("wallet address is required")
	}
	if !e.games.Supported(in.GameID) {
		return nil, invalidf("unsupported game %q", in.GameID)
	}
	if in.BetAmount < e.minBet {
		return nil, invalidf("bet must be at least %.2f", e.minBet)
	}

	balance, err := e.ledger.Debit(ctx, walletID, in.BetAmount)
	if err != nil {
		if errors.Is(err, wallet.ErrInsufficientFunds) {
			metrics.DebitsRejected.Inc()
		}
		return nil, err
	}

	serverSeed := fair.GenerateServerSeed()
	seedHash := fair.Commitment(serverSeed)

	clientSeed := strings.TrimSpace(in.ClientSeed)
	if clientSeed == "" {
		clientSeed = fair.GenerateClientSeed()
	}
	nonce := time.Now().UnixNano()

	f := fair.UniformFloat(serverSeed, clientSeed, nonce)

	result, err := e.games.Resolve(in.GameID, f, in.Options)
	if err != nil {
		// The stake already left the wallet; the refund must land before
		// the error surfaces so a failed resolution nets to zero.
		if _, creditErr := e.ledger.Credit(ctx, walletID, in.BetAmount); creditErr != nil {
			e.log.Error().Err(creditErr).
				Str("wallet_id", walletID).
				Float64("stake", in.BetAmount).
				Msg("refund after resolver failure did not apply; manual reconciliation required")
			return nil, creditErr
		}
		return nil, &ResolverError{Err: err}
	}

	outcomeJSON, err := json.Marshal(result.Outcome)
	if err != nil {
		if _, creditErr := e.ledger.Credit(ctx, walletID, in.BetAmount); creditErr != nil {
			e.log.Error().Err(creditErr).Str("wallet_id", walletID).Msg("refund after outcome encode failure did not apply")
		}
		return nil, err
	}

	deferred := e.games.Deferred(in.GameID)

	payout := 0.0
	if !deferred {
		payout = games.Round2(in.BetAmount * result.Multiplier)
		if payout > 0 {
			balance, err = e.ledger.Credit(ctx, walletID, payout)
			if err != nil {
				e.log.Error().Err(err).
					Str("wallet_id", walletID).
					Float64("payout", payout).
					Msg("payout credit failed after debit; manual reconciliation required")
				return nil, err
			}
		}
	}

	now := time.Now()
	r := &round.Round{
		ID:               uuid.NewString(),
		WalletID:         walletID,
		GameID:           in.GameID,
		Stake:            in.BetAmount,
		Payout:           payout,
		Multiplier:       result.Multiplier,
		ServerSeed:       serverSeed,
		ServerSeedHash:   seedHash,
		ClientSeed:       clientSeed,
		Nonce:            nonce,
		Outcome:          outcomeJSON,
		VerificationHash: fair.VerificationHash(serverSeed, clientSeed, nonce, outcomeJSON),
		Status:           round.StatusResolved,
		CreatedAt:        now,
	}
	if deferred {
		r.Status = round.StatusPendingCashout
	} else {
		r.SettledAt = &now
	}

	if err := e.rounds.Create(ctx, r); err != nil {
		e.log.Error().Err(err).
			Str("round_id", r.ID).
			Str("wallet_id", walletID).
			Float64("stake", in.BetAmount).
			Float64("payout", payout).
			Msg("round persist failed after money movement; manual reconciliation required")
		return nil, err
	}

	if deferred {
		e.cache.PutOpen(ctx, r)
	} else {
		e.recordSettlement(ctx, r)
	}

	e.log.Info().
		Str("round_id", r.ID).
		Str("game_id", in.GameID).
		Str("wallet_id", walletID).
		Float64("stake", in.BetAmount).
		Float64("payout", payout).
		Str("status", string(r.Status)).
		Msg("bet placed")

	return &BetReceipt{
		RoundID:          r.ID,
		GameID:           r.GameID,
		Outcome:          games.PublicView(r.GameID, outcomeJSON, !deferred),
		Bet:              in.BetAmount,
		Payout:           payout,
		PayoutMultiplier: result.Multiplier,
		NewBalance:       balance,
		Verification: Verification{
			ServerSeedHash:   seedHash,
			ClientSeed:       clientSeed,
			Nonce:            nonce,
			VerificationHash: r.VerificationHash,
		},
		RTP: e.games.Config(in.GameID).RTP,
	}, nil
}

// GetRound returns the redacted round record for player-side verification.
// The server seed appears only once the round is resolved.
func (e *Engine) GetRound(ctx context.Context, id string) (round.View, error) {
	r, err := e.rounds.Get(ctx, id)
	if err != nil {
		return round.View{}, err
	}
	return r.View(), nil
}

// recordSettlement publishes the settled-round event and bumps counters.
func (e *Engine) recordSettlement(ctx context.Context, r *round.Round) {
	result := "loss"
	if r.Payout > 0 {
		result = "win"
	}
	metrics.RoundsSettled.WithLabelValues(r.GameID, result).Inc()
	metrics.StakeTotal.WithLabelValues(r.GameID).Add(r.Stake)
	metrics.PayoutTotal.WithLabelValues(r.GameID).Add(r.Payout)

	settledAt := time.Now()
	if r.SettledAt != nil {
		settledAt = *r.SettledAt
	}
	if err := e.events.PublishRoundSettled(ctx, events.RoundSettled{
		RoundID:   r.ID,
		WalletID:  r.WalletID,
		GameID:    r.GameID,
		Stake:     r.Stake,
		Payout:    r.Payout,
		SettledAt: settledAt,
	}); err != nil {
		e.log.Warn().Err(err).Str("round_id", r.ID).Msg("failed to publish settlement event")
	}
}
