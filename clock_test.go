package courtside

import (
	"math"
	"testing"
	"time"
)

func TestClock_Advance(t *testing.T) {
	tests := []struct {
		name      string
		frame     time.Duration
		paused    bool
		timeScale float64
		steps     int
		debt      time.Duration
	}{
		{"exact", 10 * time.Millisecond, false, 1, 2, 0},
		{"remainder", 12 * time.Millisecond, false, 1, 2, 2 * time.Millisecond},
		{"short frame", 3 * time.Millisecond, false, 1, 0, 3 * time.Millisecond},
		{"paused", 100 * time.Millisecond, true, 1, 0, 0},
		{"half speed", 20 * time.Millisecond, false, 0.5, 2, 0},
		{"double speed", 10 * time.Millisecond, false, 2, 4, 0},
		{"zero scale", 10 * time.Millisecond, false, 0, 0, 0},
		{"NaN scale", 10 * time.Millisecond, false, math.NaN(), 0, 0},
		{"capped stall", 10 * time.Second, false, 1, 50, 0},
		{"negative frame", -time.Second, false, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := Clock{Step: 5 * time.Millisecond, MaxFrame: 250 * time.Millisecond}
			if steps := clock.Advance(tt.frame, tt.paused, tt.timeScale); steps != tt.steps {
				t.Errorf("Expected %d steps, got %d", tt.steps, steps)
			}
			if clock.Debt() != tt.debt {
				t.Errorf("Expected debt %v, got %v", tt.debt, clock.Debt())
			}
		})
	}
}

func TestClock_DebtCarriesOver(t *testing.T) {
	clock := Clock{Step: 5 * time.Millisecond, MaxFrame: 250 * time.Millisecond}

	total := 0
	for range 5 {
		total += clock.Advance(3*time.Millisecond, false, 1)
	}

	// 15ms in 3ms frames is three whole steps
	if total != 3 {
		t.Errorf("Expected 3 steps, got %d", total)
	}
	if clock.Debt() != 0 {
		t.Errorf("Expected no debt, got %v", clock.Debt())
	}
}

func TestClock_Alpha(t *testing.T) {
	clock := Clock{Step: 4 * time.Millisecond, MaxFrame: time.Second}
	clock.Advance(9*time.Millisecond, false, 1)

	if alpha := clock.Alpha(); math.Abs(alpha-0.25) > 1e-12 {
		t.Errorf("Expected alpha 0.25, got %v", alpha)
	}
}
