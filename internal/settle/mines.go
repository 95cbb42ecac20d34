package settle

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gamehouse/internal/games"
	"gamehouse/internal/round"
)

// The mines round stays open across several calls: start (debit, hidden
// layout, pending round), any number of reveals (pure reads), and one
// cash-out. The stored layout is the only source of truth; the client's
// claims are assertions to verify, never facts to record.

// RevealInput asks whether a single tile holds a mine.
type RevealInput struct {
	WalletAddress string `json:"wallet_address"`
	RoundID       string `json:"round_id"`
	TileIndex     int    `json:"tile_index"`
}

// RevealResult answers for exactly one tile and nothing else.
type RevealResult struct {
	TileIndex int  `json:"tile_index"`
	IsMine    bool `json:"is_mine"`
}

// CashoutInput closes an open mines round against the tiles the caller
// claims to have revealed safely.
type CashoutInput struct {
	WalletAddress   string `json:"wallet_address"`
	RoundID         string `json:"round_id"`
	RevealedIndices []int  `json:"revealed_indices"`
}

type CashoutResult struct {
	RoundID    string  `json:"round_id"`
	CashedOut  bool    `json:"cashed_out"`
	HitMine    bool    `json:"hit_mine"`
	Payout     float64 `json:"payout"`
	Multiplier float64 `json:"multiplier,omitempty"`
	NewBalance float64 `json:"new_balance"`
}

// RevealTile reports whether one tile is a mine. It mutates nothing: even a
// mine hit leaves the round open until cash-out is called.
func (e *Engine) RevealTile(ctx context.Context, in RevealInput) (*RevealResult, error) {
	walletID := strings.ToLower(strings.TrimSpace(in.WalletAddress))
	if walletID == "" {
		return nil, invalidf("wallet address is required")
	}

	r, err := e.openMinesRound(ctx, walletID, in.RoundID, true)
	if err != nil {
		return nil, err
	}

	layout, err := minesLayout(r)
	if err != nil {
		return nil, err
	}
	if in.TileIndex < 0 || in.TileIndex >= layout.TotalTiles {
		return nil, invalidf("tile index must be between 0 and %d", layout.TotalTiles-1)
	}

	return &RevealResult{
		TileIndex: in.TileIndex,
		IsMine:    layout.IsMine(in.TileIndex),
	}, nil
}

// CashoutMines settles an open mines round. Every claimed index is checked
// against the stored layout, read fresh from the authoritative store; the
// pending->resolved transition happens before any credit, so racing
// cash-outs cannot pay twice.
func (e *Engine) CashoutMines(ctx context.Context, in CashoutInput) (*CashoutResult, error) {
	walletID := strings.ToLower(strings.TrimSpace(in.WalletAddress))
	if walletID == "" {
		return nil, invalidf("wallet address is required")
	}

	r, err := e.openMinesRound(ctx, walletID, in.RoundID, false)
	if err != nil {
		return nil, err
	}

	layout, err := minesLayout(r)
	if err != nil {
		return nil, err
	}

	claimed := make(map[int]bool, len(in.RevealedIndices))
	hitMine := false
	for _, tile := range in.RevealedIndices {
		if tile < 0 || tile >= layout.TotalTiles {
			return nil, invalidf("tile index must be between 0 and %d", layout.TotalTiles-1)
		}
		claimed[tile] = true
		if layout.IsMine(tile) {
			hitMine = true
		}
	}

	if hitMine {
		resolved, err := e.resolveMines(ctx, r.ID, 0, 0)
		if err != nil {
			return nil, err
		}
		balance, err := e.ledger.Balance(ctx, walletID)
		if err != nil {
			return nil, err
		}
		e.recordSettlement(ctx, resolved)
		e.log.Info().
			Str("round_id", r.ID).
			Str("wallet_id", walletID).
			Msg("mines cash-out hit a mine")

		return &CashoutResult{
			RoundID:    r.ID,
			CashedOut:  false,
			HitMine:    true,
			Payout:     0,
			NewBalance: balance,
		}, nil
	}

	revealed := len(claimed)
	multiplier := games.MinesCashoutMultiplier(revealed, e.games.Config(games.Mines).RTP)
	payout := games.Round2(r.Stake * multiplier)

	resolved, err := e.resolveMines(ctx, r.ID, payout, multiplier)
	if err != nil {
		return nil, err
	}

	balance, err := e.ledger.Credit(ctx, walletID, payout)
	if err != nil {
		e.log.Error().Err(err).
			Str("round_id", r.ID).
			Str("wallet_id", walletID).
			Float64("payout", payout).
			Msg("mines payout credit failed after round resolved; manual reconciliation required")
		return nil, err
	}

	e.recordSettlement(ctx, resolved)
	e.log.Info().
		Str("round_id", r.ID).
		Str("wallet_id", walletID).
		Int("revealed", revealed).
		Float64("payout", payout).
		Msg("mines cashed out")

	return &CashoutResult{
		RoundID:    r.ID,
		CashedOut:  true,
		HitMine:    false,
		Payout:     payout,
		Multiplier: multiplier,
		NewBalance: balance,
	}, nil
}

// openMinesRound loads a round and checks ownership, game and status with a
// distinct error per condition. Reveals may serve from the hot cache;
// cash-out always reads the store.
func (e *Engine) openMinesRound(ctx context.Context, walletID, roundID string, allowCache bool) (*round.Round, error) {
	if roundID == "" {
		return nil, invalidf("round id is required")
	}

	var r *round.Round
	if allowCache {
		if cached, ok := e.cache.GetOpen(ctx, roundID); ok {
			r = cached
		}
	}
	if r == nil {
		stored, err := e.rounds.Get(ctx, roundID)
		if err != nil {
			return nil, err
		}
		r = stored
	}

	if r.WalletID != walletID {
		return nil, ErrForbidden
	}
	if r.GameID != games.Mines {
		return nil, ErrWrongGame
	}
	if r.Status != round.StatusPendingCashout {
		return nil, ErrRoundClosed
	}
	return r, nil
}

func (e *Engine) resolveMines(ctx context.Context, roundID string, payout, multiplier float64) (*round.Round, error) {
	resolved, err := e.rounds.Resolve(ctx, roundID, payout, multiplier)
	if err != nil {
		if errors.Is(err, round.ErrAlreadyResolved) {
			return nil, ErrRoundClosed
		}
		return nil, err
	}
	e.cache.Drop(ctx, roundID)
	return resolved, nil
}

func minesLayout(r *round.Round) (games.MinesOutcome, error) {
	var layout games.MinesOutcome
	if err := json.Unmarshal(r.Outcome, &layout); err != nil {
		return games.MinesOutcome{}, err
	}
	return layout, nil
}
