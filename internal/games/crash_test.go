package games

import (
	"errors"
	"testing"
)

func TestResolveCrash(t *testing.T) {
	cfg := Config{RTP: 0.99}

	result, err := resolveCrash(0.5, cfg, Options{"cashout_at": 1.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcome := result.Outcome.(CrashOutcome)
	if outcome.CrashPoint != 1.98 {
		t.Errorf("crash point = %v, want 1.98", outcome.CrashPoint)
	}
	if !outcome.Win {
		t.Error("crash at 1.98 should cover a 1.5 cash-out")
	}
	if result.Multiplier != 1.5 {
		t.Errorf("multiplier = %v, want the cash-out point on a win", result.Multiplier)
	}

	result, err = resolveCrash(0.005, cfg, Options{"cashout_at": 1.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome.(CrashOutcome).Win {
		t.Error("instant crash should lose")
	}
	if result.Multiplier != 0 {
		t.Errorf("losing multiplier = %v, want 0", result.Multiplier)
	}
}

func TestResolveCrashInvalidCashout(t *testing.T) {
	cfg := Config{RTP: 0.99}

	for _, cashout := range []float64{1.0, 0, limboMaxPoint + 1} {
		if _, err := resolveCrash(0.5, cfg, Options{"cashout_at": cashout}); !errors.Is(err, ErrBadOptions) {
			t.Errorf("cashout_at %v: expected ErrBadOptions, got %v", cashout, err)
		}
	}
}
