package games

import "fmt"

// PlinkoRisk selects the multiplier table.
type PlinkoRisk string

const (
	PlinkoRiskLow    PlinkoRisk = "low"
	PlinkoRiskMedium PlinkoRisk = "medium"
	PlinkoRiskHigh   PlinkoRisk = "high"
)

// Multiplier tables for a 16-row board; fewer rows reuse the table with the
// extremes damped.
var plinkoMultipliers = map[PlinkoRisk][]float64{
	PlinkoRiskLow: {
		16.0, 9.0, 2.0, 1.4, 1.4, 1.2, 1.1, 1.0,
		0.5, 1.0, 1.1, 1.2, 1.4, 1.4, 2.0, 9.0, 16.0,
	},
	PlinkoRiskMedium: {
		110.0, 41.0, 10.0, 5.0, 3.0, 1.5, 1.0, 0.5,
		0.3, 0.5, 1.0, 1.5, 3.0, 5.0, 10.0, 41.0, 110.0,
	},
	PlinkoRiskHigh: {
		1000.0, 130.0, 26.0, 9.0, 4.0, 2.0, 0.2, 0.2,
		0.2, 0.2, 0.2, 2.0, 4.0, 9.0, 26.0, 130.0, 1000.0,
	},
}

// PlinkoOutcome records the ball's path (0 = left, 1 = right) and the slot
// it landed in.
type PlinkoOutcome struct {
	Risk PlinkoRisk `json:"risk"`
	Rows int        `json:"rows"`
	Path []int      `json:"path"`
	Slot int        `json:"slot"`
}

func resolvePlinko(f float64, cfg Config, opts Options) (Result, error) {
	risk, err := stringOpt(opts, "risk", string(PlinkoRiskMedium))
	if err != nil {
		return Result{}, err
	}
	r := PlinkoRisk(risk)
	if r != PlinkoRiskLow && r != PlinkoRiskMedium && r != PlinkoRiskHigh {
		return Result{}, fmt.Errorf("%w: risk must be low, medium, or high", ErrBadOptions)
	}

	rows, err := intOpt(opts, "rows", 16)
	if err != nil {
		return Result{}, err
	}
	if rows != 8 && rows != 12 && rows != 16 {
		return Result{}, fmt.Errorf("%w: rows must be 8, 12, or 16", ErrBadOptions)
	}

	path, slot := plinkoPath(f, rows)
	multiplier := plinkoMultiplier(r, slot, rows)

	return Result{
		Outcome:    PlinkoOutcome{Risk: r, Rows: rows, Path: path, Slot: slot},
		Multiplier: multiplier,
	}, nil
}

// plinkoPath expands the float into one left/right decision per row.
func plinkoPath(f float64, rows int) ([]int, int) {
	path := make([]int, rows)
	slot := 0
	state := floatState(f)

	for i := 0; i < rows; i++ {
		state = splitmix64(state)
		direction := int(state % 2)
		path[i] = direction
		if direction == 1 {
			slot++
		}
	}
	return path, slot
}

func plinkoMultiplier(risk PlinkoRisk, slot, rows int) float64 {
	multipliers := plinkoMultipliers[risk]

	if slot < 0 {
		slot = 0
	}
	if slot >= len(multipliers) {
		slot = len(multipliers) - 1
	}

	m := multipliers[slot]

	// Shorter boards cannot reach the 16-row tail slots, so damp the
	// extreme multipliers proportionally.
	if rows < 16 && m > 10.0 {
		m = 10.0 + (m-10.0)*float64(rows)/16.0
	}
	return m
}
