package model

import "time"

// Frequency is the recurrence interval of a DCA schedule.
type Frequency string

const (
	FreqHourly  Frequency = "hourly"
	FreqDaily   Frequency = "daily"
	FreqWeekly  Frequency = "weekly"
	FreqMonthly Frequency = "monthly"
)

// Interval returns the minimum duration between executions, or 0 for an
// unknown frequency.
func (f Frequency) Interval() time.Duration {
	switch f {
	case FreqHourly:
		return time.Hour
	case FreqDaily:
		return 24 * time.Hour
	case FreqWeekly:
		return 7 * 24 * time.Hour
	case FreqMonthly:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// Valid reports whether f is a recognized frequency.
func (f Frequency) Valid() bool { return f.Interval() > 0 }

// DCAConfig is a persisted recurring-purchase schedule. TotalExecutions
// and TotalSpent advance on every execution, simulated ones included, so
// in simulation mode they reflect intent rather than settled trades.
type DCAConfig struct {
	ID              string    `json:"id"`
	Symbol          string    `json:"symbol"`
	Exchange        string    `json:"exchange"`
	AmountUSD       float64   `json:"amountUSD"`
	Frequency       Frequency `json:"frequency"`
	Enabled         bool      `json:"enabled"`
	LastExecuted    int64     `json:"lastExecuted,omitempty"` // unix millis
	TotalExecutions int       `json:"totalExecutions"`
	TotalSpent      float64   `json:"totalSpent"`
	CreatedAt       int64     `json:"createdAt"`
}

// Due reports whether the schedule should execute at the given instant.
func (c *DCAConfig) Due(now time.Time) bool {
	if !c.Enabled || !c.Frequency.Valid() {
		return false
	}
	if c.LastExecuted == 0 {
		return true
	}
	return now.Sub(time.UnixMilli(c.LastExecuted)) >= c.Frequency.Interval()
}
