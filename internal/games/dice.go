package games

import "fmt"

const (
	diceMinTarget = 1.00
	diceMaxTarget = 99.00
)

// DiceOutcome is the settled result of an over/under dice roll.
type DiceOutcome struct {
	Roll   float64 `json:"roll"`
	Target float64 `json:"target"`
	Over   bool    `json:"over"`
	Win    bool    `json:"win"`
}

func resolveDice(f float64, cfg Config, opts Options) (Result, error) {
	target, err := floatOpt(opts, "target", 50.00)
	if err != nil {
		return Result{}, err
	}
	over, err := boolOpt(opts, "over", true)
	if err != nil {
		return Result{}, err
	}

	if over && target >= diceMaxTarget {
		return Result{}, fmt.Errorf("%w: target too high for an over bet", ErrBadOptions)
	}
	if !over && target <= diceMinTarget {
		return Result{}, fmt.Errorf("%w: target too low for an under bet", ErrBadOptions)
	}
	if target < 0 || target > 100 {
		return Result{}, fmt.Errorf("%w: target must be between 0 and 100", ErrBadOptions)
	}

	roll := Round2(f * 100.0)

	win := roll < target
	if over {
		win = roll > target
	}

	multiplier := 0.0
	if win {
		multiplier = diceMultiplier(target, over, cfg.RTP)
	}

	return Result{
		Outcome:    DiceOutcome{Roll: roll, Target: target, Over: over, Win: win},
		Multiplier: multiplier,
	}, nil
}

// diceMultiplier is the inverse of the win chance scaled by the game's RTP.
func diceMultiplier(target float64, over bool, rtp float64) float64 {
	winChance := target / 100.0
	if over {
		winChance = (100.0 - target) / 100.0
	}
	if winChance <= 0.01 {
		winChance = 0.01
	}
	return Round2((1.0 / winChance) * rtp)
}
