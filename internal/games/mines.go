package games

import (
	"encoding/json"
	"fmt"
	"sort"
)

const (
	minesGridSize = 25 // 5x5 grid
	minesMinCount = 1
	minesMaxCount = 24

	// MinesMaxMultiplier caps the cash-out multiplier.
	MinesMaxMultiplier = 10.0
)

// MinesOutcome is the full private layout generated at round start. The mine
// positions stay server-side until the round resolves; callers see only the
// Public projection while the round is open.
type MinesOutcome struct {
	TotalTiles    int   `json:"total_tiles"`
	MineCount     int   `json:"mine_count"`
	MinePositions []int `json:"mine_positions"`
}

// MinesPublicOutcome is the externally visible projection of an open round.
type MinesPublicOutcome struct {
	TotalTiles int `json:"total_tiles"`
	MineCount  int `json:"mine_count"`
}

// Public strips the mine positions.
func (o MinesOutcome) Public() MinesPublicOutcome {
	return MinesPublicOutcome{TotalTiles: o.TotalTiles, MineCount: o.MineCount}
}

// IsMine reports whether the tile index holds a mine.
func (o MinesOutcome) IsMine(tile int) bool {
	for _, p := range o.MinePositions {
		if p == tile {
			return true
		}
	}
	return false
}

func resolveMines(f float64, cfg Config, opts Options) (Result, error) {
	mineCount, err := intOpt(opts, "mines", cfg.MineCount)
	if err != nil {
		return Result{}, err
	}
	if mineCount < cfg.MinMines || mineCount > cfg.MaxMines {
		return Result{}, fmt.Errorf("%w: mine count must be between %d and %d", ErrBadOptions, cfg.MinMines, cfg.MaxMines)
	}

	outcome := MinesOutcome{
		TotalTiles:    cfg.TotalTiles,
		MineCount:     mineCount,
		MinePositions: mineLayout(f, cfg.TotalTiles, mineCount),
	}

	// Settlement is deferred; the multiplier is fixed at cash-out from the
	// number of safely revealed tiles.
	return Result{Outcome: outcome, Multiplier: 0}, nil
}

// mineLayout picks mineCount distinct tiles with a partial Fisher-Yates
// shuffle driven by the float's derivation bits. Identical floats always
// produce identical layouts.
func mineLayout(f float64, totalTiles, mineCount int) []int {
	tiles := make([]int, totalTiles)
	for i := range tiles {
		tiles[i] = i
	}

	state := floatState(f)
	for i := 0; i < mineCount; i++ {
		state = splitmix64(state)
		j := i + int(state%uint64(totalTiles-i))
		tiles[i], tiles[j] = tiles[j], tiles[i]
	}

	positions := tiles[:mineCount]
	sort.Ints(positions)
	return positions
}

// MinesCashoutMultiplier returns the multiplier for cashing out after k safe
// reveals: min(10, 1 + 0.2*k*rtp).
func MinesCashoutMultiplier(revealed int, rtp float64) float64 {
	m := 1.0 + 0.2*float64(revealed)*rtp
	if m > MinesMaxMultiplier {
		return MinesMaxMultiplier
	}
	return m
}

// PublicView projects an outcome payload for external consumption. Open
// mines rounds hide their mine positions; every other payload passes through
// unchanged.
func PublicView(gameID string, outcome json.RawMessage, settled bool) json.RawMessage {
	if gameID != Mines || settled {
		return outcome
	}
	var full MinesOutcome
	if err := json.Unmarshal(outcome, &full); err != nil {
		return outcome
	}
	public, err := json.Marshal(full.Public())
	if err != nil {
		return outcome
	}
	return public
}
