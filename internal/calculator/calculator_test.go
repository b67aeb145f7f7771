package calculator

import "testing"

func TestPercentChange(t *testing.T) {
	tests := []struct {
		base, current, want float64
	}{
		{100, 106, 6},
		{100, 94, -6},
		{100, 100, 0},
		{0, 50, 0},
		{-10, 50, 0},
	}
	for _, tt := range tests {
		if got := PercentChange(tt.base, tt.current); got != tt.want {
			t.Errorf("PercentChange(%v, %v) = %v, want %v", tt.base, tt.current, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(25, 100); got != 25 {
		t.Errorf("Percent(25, 100) = %v", got)
	}
	if got := Percent(10, 0); got != 0 {
		t.Errorf("Percent with zero total = %v, want 0", got)
	}
}

func TestRounding(t *testing.T) {
	if got := Round2(9499.499999); got != 9499.5 {
		t.Errorf("Round2 = %v", got)
	}
	if got := Round8(0.123456789); got != 0.12345679 {
		t.Errorf("Round8 = %v", got)
	}
}
