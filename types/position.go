package types

import (
	"math"
	"time"
)

// Position is a read-only snapshot of an open trade owned by the execution
// engine. Only long positions exist in this design.
type Position struct {
	Pair     string
	OpenRate float64
	OpenedAt time.Time
	Side     Side
	// Profit is the current unrealized profit as a fraction (0.03 = 3 %).
	Profit float64
}

// HasOpenRate reports whether the open rate is usable.
func (p Position) HasOpenRate() bool {
	return p.OpenRate > 0 && !math.IsNaN(p.OpenRate) && !math.IsInf(p.OpenRate, 0)
}

// HasOpenTime reports whether the open timestamp is set.
func (p Position) HasOpenTime() bool {
	return !p.OpenedAt.IsZero()
}

// Age returns how long the position has been open at now.
func (p Position) Age(now time.Time) time.Duration {
	if !p.HasOpenTime() {
		return 0
	}
	return now.Sub(p.OpenedAt)
}

// ProfitAt computes the unrealized profit fraction of a long at rate.
func (p Position) ProfitAt(rate float64) float64 {
	if !p.HasOpenRate() {
		return 0
	}
	return rate/p.OpenRate - 1
}
