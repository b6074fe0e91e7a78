package strategy

import (
	"math"
	"time"

	"github.com/evdnx/solid/config"
	"github.com/evdnx/solid/types"
)

// ROIBand is the profit floor applying from a position age onwards.
type ROIBand struct {
	From  time.Duration
	Floor float64
}

// DefaultROIBands widen the floor as a trade matures.
var DefaultROIBands = []ROIBand{
	{From: 0, Floor: 0.02},
	{From: 60 * time.Minute, Floor: 0.05},
	{From: 120 * time.Minute, Floor: 0.10},
}

// ROICurve maps position age and profit to the minimum acceptable profit.
type ROICurve struct {
	bands    []ROIBand
	clock    config.ROIClock
	now      func() time.Time
	fallback float64
}

// NewROICurve builds the default curve. now is only consulted with the
// wall clock; nil means time.Now.
func NewROICurve(cfg config.StrategyConfig, now func() time.Time) ROICurve {
	if now == nil {
		now = time.Now
	}
	return ROICurve{
		bands:    DefaultROIBands,
		clock:    cfg.ROIClock,
		now:      now,
		fallback: cfg.MinimalROI,
	}
}

// WithBands returns a copy using bands, which must be sorted by From.
func (c ROICurve) WithBands(bands []ROIBand) ROICurve {
	c.bands = append([]ROIBand(nil), bands...)
	return c
}

// Age returns the position age used by the curve. With the wall clock
// barTime is ignored. The boolean is false when the age is unknown.
func (c ROICurve) Age(pos types.Position, barTime time.Time) (time.Duration, bool) {
	if !pos.HasOpenTime() {
		return 0, false
	}
	now := barTime
	if c.clock != config.ROIClockBar {
		now = c.now()
	}
	if now.IsZero() {
		return 0, false
	}
	return now.UTC().Sub(pos.OpenedAt.UTC()), true
}

// Floor returns max(band floor, profit) for the position's age band. With
// an unknown age the minimal ROI is used as the band floor.
func (c ROICurve) Floor(pos types.Position, profit float64, barTime time.Time) float64 {
	age, ok := c.Age(pos, barTime)
	if !ok || len(c.bands) == 0 {
		return math.Max(c.fallback, profit)
	}
	floor := c.bands[0].Floor
	for _, b := range c.bands {
		if age < b.From {
			break
		}
		floor = b.Floor
	}
	return math.Max(floor, profit)
}

// ShouldTakeProfit reports whether profit has reached the floor, which
// happens exactly when profit is at or above the band floor.
func (c ROICurve) ShouldTakeProfit(pos types.Position, profit float64, barTime time.Time) bool {
	return profit >= c.Floor(pos, math.Inf(-1), barTime)
}
