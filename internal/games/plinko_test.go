package games

import (
	"errors"
	"testing"
)

func TestResolvePlinko(t *testing.T) {
	cfg := Config{RTP: 0.97}

	result, err := resolvePlinko(0.42, cfg, Options{"risk": "medium", "rows": 16.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outcome := result.Outcome.(PlinkoOutcome)
	if len(outcome.Path) != 16 {
		t.Errorf("path length = %d, want 16", len(outcome.Path))
	}

	rights := 0
	for _, d := range outcome.Path {
		if d != 0 && d != 1 {
			t.Errorf("path direction out of range: %d", d)
		}
		if d == 1 {
			rights++
		}
	}
	if outcome.Slot != rights {
		t.Errorf("slot = %d, want %d right turns", outcome.Slot, rights)
	}

	if result.Multiplier != plinkoMultipliers[PlinkoRiskMedium][outcome.Slot] {
		t.Errorf("multiplier = %v does not match table entry for slot %d", result.Multiplier, outcome.Slot)
	}
}

func TestResolvePlinkoDeterministic(t *testing.T) {
	cfg := Config{RTP: 0.97}
	opts := Options{"risk": "high", "rows": 12.0}

	first, err := resolvePlinko(0.987654, cfg, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := resolvePlinko(0.987654, cfg, opts)

	a := first.Outcome.(PlinkoOutcome)
	b := second.Outcome.(PlinkoOutcome)
	if a.Slot != b.Slot || len(a.Path) != len(b.Path) {
		t.Fatal("expected identical outcomes for identical floats")
	}
	for i := range a.Path {
		if a.Path[i] != b.Path[i] {
			t.Fatal("expected identical paths for identical floats")
		}
	}
}

func TestPlinkoMultiplierDamping(t *testing.T) {
	// The 16-row table's extreme slots are unreachable odds on shorter
	// boards, so their multipliers shrink proportionally.
	if got := plinkoMultiplier(PlinkoRiskHigh, 0, 8); got != 505.0 {
		t.Errorf("damped multiplier = %v, want 505", got)
	}
	if got := plinkoMultiplier(PlinkoRiskHigh, 0, 16); got != 1000.0 {
		t.Errorf("full-board multiplier = %v, want 1000", got)
	}
	if got := plinkoMultiplier(PlinkoRiskLow, 8, 8); got != 0.5 {
		t.Errorf("center multiplier = %v, want 0.5", got)
	}
}

func TestResolvePlinkoInvalidOptions(t *testing.T) {
	cfg := Config{RTP: 0.97}

	tests := []struct {
		name string
		opts Options
	}{
		{"bad risk", Options{"risk": "extreme"}},
		{"bad rows", Options{"rows": 10.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolvePlinko(0.5, cfg, tt.opts)
			if !errors.Is(err, ErrBadOptions) {
				t.Errorf("expected ErrBadOptions, got %v", err)
			}
		})
	}
}
