package games

import "fmt"

// CoinflipOutcome is the settled result of a single coin flip.
type CoinflipOutcome struct {
	Side  string `json:"side"`
	Guess string `json:"guess"`
	Win   bool   `json:"win"`
}

func resolveCoinflip(f float64, cfg Config, opts Options) (Result, error) {
	guess, err := stringOpt(opts, "side", "heads")
	if err != nil {
		return Result{}, err
	}
	if guess != "heads" && guess != "tails" {
		return Result{}, fmt.Errorf("%w: side must be heads or tails", ErrBadOptions)
	}

	side := "tails"
	if f < 0.5 {
		side = "heads"
	}

	win := side == guess
	multiplier := 0.0
	if win {
		multiplier = Round2(2.0 * cfg.RTP)
	}

	return Result{
		Outcome:    CoinflipOutcome{Side: side, Guess: guess, Win: win},
		Multiplier: multiplier,
	}, nil
}
