package calculator

import "math"

// Round2 rounds monetary values to 2 decimal places (USD-scale figures).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round8 rounds asset amounts to 8 decimal places (sub-unit quantities).
func Round8(v float64) float64 {
	return math.Round(v*1e8) / 1e8
}
