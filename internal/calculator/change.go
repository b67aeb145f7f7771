package calculator

// PercentChange returns the percent move from base to current.
// Returns 0 when base is not positive to avoid a zero division.
func PercentChange(base, current float64) float64 {
	if base <= 0 {
		return 0
	}
	return (current - base) / base * 100
}

// Percent returns part as a percentage of total, or 0 when total is 0.
func Percent(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
