package mathutil

import "testing"

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{name: "Round down", input: 1.234, expected: 1.23},
		{name: "Round up", input: 1.236, expected: 1.24},
		{name: "Negative value", input: -1.005, expected: -1.0},
		{name: "Already rounded", input: 42.50, expected: 42.50},
		{name: "Zero", input: 0.0, expected: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Round(tt.input); got != tt.expected {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	if !IsZero(0.005) {
		t.Errorf("IsZero(0.005) = false, expected true (within one cent)")
	}
	if IsZero(0.02) {
		t.Errorf("IsZero(0.02) = true, expected false")
	}
}

func TestIsNegative(t *testing.T) {
	if !IsNegative(-0.02) {
		t.Errorf("IsNegative(-0.02) = false, expected true")
	}
	if IsNegative(-0.005) {
		t.Errorf("IsNegative(-0.005) = true, expected false (within tolerance)")
	}
	if IsNegative(1.0) {
		t.Errorf("IsNegative(1.0) = true, expected false")
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(100.0, 100.005, 0.01) {
		t.Errorf("WithinTolerance(100.0, 100.005, 0.01) = false, expected true")
	}
	if WithinTolerance(100.0, 100.02, 0.01) {
		t.Errorf("WithinTolerance(100.0, 100.02, 0.01) = true, expected false")
	}
}

func TestMinMax(t *testing.T) {
	if got := Min(1.0, 2.0); got != 1.0 {
		t.Errorf("Min(1, 2) = %v, expected 1", got)
	}
	if got := Max(1.0, 2.0); got != 2.0 {
		t.Errorf("Max(1, 2) = %v, expected 2", got)
	}
}
