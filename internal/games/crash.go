package games

import "fmt"

// CrashOutcome is the settled result of a single-shot crash bet: the round's
// crash point against the player's chosen cash-out multiplier.
type CrashOutcome struct {
	CrashPoint float64 `json:"crash_point"`
	CashoutAt  float64 `json:"cashout_at"`
	Win        bool    `json:"win"`
}

func resolveCrash(f float64, cfg Config, opts Options) (Result, error) {
	cashoutAt, err := floatOpt(opts, "cashout_at", 2.00)
	if err != nil {
		return Result{}, err
	}
	if cashoutAt < 1.01 || cashoutAt > limboMaxPoint {
		return Result{}, fmt.Errorf("%w: cashout_at must be between 1.01 and %.0f", ErrBadOptions, limboMaxPoint)
	}

	crashPoint := drawPoint(f, cfg.RTP)

	win := crashPoint >= cashoutAt
	multiplier := 0.0
	if win {
		multiplier = cashoutAt
	}

	return Result{
		Outcome:    CrashOutcome{CrashPoint: crashPoint, CashoutAt: cashoutAt, Win: win},
		Multiplier: multiplier,
	}, nil
}
