package config

import (
	"errors"
	"fmt"
	"time"
)

// ROIClock selects the time source used to age a position for the ROI
// curve.
type ROIClock string

const (
	// ROIClockWall ages positions against the wall clock. This matches the
	// historical behaviour but is wrong inside a backtest.
	ROIClockWall ROIClock = "wall"
	// ROIClockBar ages positions against the bar time supplied by the engine.
	ROIClockBar ROIClock = "bar"
)

// StrategyConfig is an immutable snapshot of every value the strategy
// reads during a run. It is built once per run (see FromParams) and passed
// by value; nothing mutates it mid-run.
type StrategyConfig struct {
	// Signal thresholds and trend periods.
	BuyRSI       int // default 30
	SellRSI      int // default 70
	BuyEMAShort  int // default 10
	BuyEMALong   int // default 30
	SellEMAShort int // default 10
	SellEMALong  int // default 30

	// Position management.
	TrailingStop     float64 // 0.05 = stop 5 % below the open rate
	MaxTradeDuration int     // minutes
	ProfitTaking     float64 // exit once profit exceeds this fraction

	// Protections.
	MaxEntryPositionAdjustment int
	UseStopProtection          bool

	// Fixed strategy settings, not exposed to the optimizer.
	Timeframe  time.Duration // bar interval, 15m
	StopLoss   float64       // -0.05
	MinimalROI float64       // ROI target at age 0 when the position age is unknown
	ROIClock   ROIClock
}

// Validate checks that all fields are within sensible bounds. It returns
// the first problem found so configuration errors surface before a run.
func (c *StrategyConfig) Validate() error {
	if c.BuyRSI <= 0 || c.BuyRSI >= 100 {
		return fmt.Errorf("BuyRSI (%d) must be inside (0, 100)", c.BuyRSI)
	}
	if c.SellRSI <= 0 || c.SellRSI >= 100 {
		return fmt.Errorf("SellRSI (%d) must be inside (0, 100)", c.SellRSI)
	}
	for _, p := range []struct {
		name   string
		period int
	}{
		{"BuyEMAShort", c.BuyEMAShort},
		{"BuyEMALong", c.BuyEMALong},
		{"SellEMAShort", c.SellEMAShort},
		{"SellEMALong", c.SellEMALong},
	} {
		if p.period < 2 {
			return fmt.Errorf("%s (%d) must be at least 2", p.name, p.period)
		}
	}
	if c.TrailingStop <= 0 || c.TrailingStop >= 1 {
		return fmt.Errorf("TrailingStop (%f) must be inside (0, 1)", c.TrailingStop)
	}
	if c.MaxTradeDuration <= 0 {
		return errors.New("MaxTradeDuration must be positive")
	}
	if c.ProfitTaking <= 0 {
		return fmt.Errorf("ProfitTaking (%f) must be positive", c.ProfitTaking)
	}
	if c.MaxEntryPositionAdjustment < 0 {
		return errors.New("MaxEntryPositionAdjustment cannot be negative")
	}
	if c.Timeframe <= 0 {
		return errors.New("Timeframe must be positive")
	}
	if c.StopLoss >= 0 || c.StopLoss < -1 {
		return fmt.Errorf("StopLoss (%f) must be in [-1, 0)", c.StopLoss)
	}
	if c.MinimalROI < 0 {
		return fmt.Errorf("MinimalROI (%f) cannot be negative", c.MinimalROI)
	}
	switch c.ROIClock {
	case ROIClockWall, ROIClockBar:
	default:
		return fmt.Errorf("ROIClock %q must be %q or %q", c.ROIClock, ROIClockWall, ROIClockBar)
	}
	return nil
}

// Default returns the configuration produced by the declared defaults.
func Default() StrategyConfig {
	return StrategyConfig{
		BuyRSI:                     30,
		SellRSI:                    70,
		BuyEMAShort:                10,
		BuyEMALong:                 30,
		SellEMAShort:               10,
		SellEMALong:                30,
		TrailingStop:               0.05,
		MaxTradeDuration:           120,
		ProfitTaking:               0.05,
		MaxEntryPositionAdjustment: 1,
		UseStopProtection:          true,
		Timeframe:                  15 * time.Minute,
		StopLoss:                   -0.05,
		MinimalROI:                 0.10,
		ROIClock:                   ROIClockWall,
	}
}
