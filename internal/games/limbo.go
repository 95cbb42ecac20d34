package games

import "fmt"

const limboMaxPoint = 1000000.00

// LimboOutcome is the settled result of a limbo bet: the drawn point wins if
// it reaches the player's target multiplier.
type LimboOutcome struct {
	Point  float64 `json:"point"`
	Target float64 `json:"target"`
	Win    bool    `json:"win"`
}

func resolveLimbo(f float64, cfg Config, opts Options) (Result, error) {
	target, err := floatOpt(opts, "target", 2.00)
	if err != nil {
		return Result{}, err
	}
	if target < 1.01 || target > limboMaxPoint {
		return Result{}, fmt.Errorf("%w: target must be between 1.01 and %.0f", ErrBadOptions, limboMaxPoint)
	}

	point := drawPoint(f, cfg.RTP)

	win := point >= target
	multiplier := 0.0
	if win {
		multiplier = target
	}

	return Result{
		Outcome:    LimboOutcome{Point: point, Target: target, Win: win},
		Multiplier: multiplier,
	}, nil
}

// drawPoint maps a uniform float onto the 1/(1-f) curve scaled by RTP. The
// distribution makes high points rare in proportion to their payout.
func drawPoint(f float64, rtp float64) float64 {
	houseEdge := 1.0 - rtp
	if f < houseEdge {
		return 1.00
	}
	point := Round2((1.0 - houseEdge) / (1.0 - f))
	if point < 1.00 {
		return 1.00
	}
	if point > limboMaxPoint {
		return limboMaxPoint
	}
	return point
}
