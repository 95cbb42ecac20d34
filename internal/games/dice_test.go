package games

import (
	"errors"
	"testing"
)

func TestResolveDice(t *testing.T) {
	cfg := Config{RTP: 0.99}

	tests := []struct {
		name     string
		f        float64
		opts     Options
		wantRoll float64
		wantWin  bool
		wantMult float64
	}{
		{
			name:     "over 50 wins",
			f:        0.75,
			opts:     Options{"target": 50.0, "over": true},
			wantRoll: 75.0,
			wantWin:  true,
			wantMult: 1.98,
		},
		{
			name:     "over 50 loses",
			f:        0.25,
			opts:     Options{"target": 50.0, "over": true},
			wantRoll: 25.0,
			wantWin:  false,
			wantMult: 0,
		},
		{
			name:     "under 50 wins",
			f:        0.25,
			opts:     Options{"target": 50.0, "over": false},
			wantRoll: 25.0,
			wantWin:  true,
			wantMult: 1.98,
		},
		{
			name:     "high target over pays more",
			f:        0.95,
			opts:     Options{"target": 90.0, "over": true},
			wantRoll: 95.0,
			wantWin:  true,
			wantMult: 9.9,
		},
		{
			name:     "defaults to over 50",
			f:        0.75,
			opts:     nil,
			wantRoll: 75.0,
			wantWin:  true,
			wantMult: 1.98,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := resolveDice(tt.f, cfg, tt.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			outcome := result.Outcome.(DiceOutcome)
			if outcome.Roll != tt.wantRoll {
				t.Errorf("roll = %v, want %v", outcome.Roll, tt.wantRoll)
			}
			if outcome.Win != tt.wantWin {
				t.Errorf("win = %v, want %v", outcome.Win, tt.wantWin)
			}
			if result.Multiplier != tt.wantMult {
				t.Errorf("multiplier = %v, want %v", result.Multiplier, tt.wantMult)
			}
		})
	}
}

func TestResolveDiceInvalidTargets(t *testing.T) {
	cfg := Config{RTP: 0.99}

	tests := []struct {
		name string
		opts Options
	}{
		{"over target too high", Options{"target": 99.5, "over": true}},
		{"under target too low", Options{"target": 0.5, "over": false}},
		{"target negative", Options{"target": -10.0, "over": false}},
		{"target above 100", Options{"target": 150.0, "over": false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveDice(0.5, cfg, tt.opts)
			if !errors.Is(err, ErrBadOptions) {
				t.Errorf("expected ErrBadOptions, got %v", err)
			}
		})
	}
}

func TestResolveDiceDeterministic(t *testing.T) {
	cfg := Config{RTP: 0.99}
	opts := Options{"target": 60.0, "over": true}

	first, err := resolveDice(0.654321, cfg, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := resolveDice(0.654321, cfg, opts)

	if first.Outcome.(DiceOutcome) != second.Outcome.(DiceOutcome) {
		t.Error("expected identical outcomes for identical floats")
	}
}
