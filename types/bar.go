package types

import (
	"math"
	"time"
)

// Indicators holds the named series the indicator feed attaches to a bar.
// NaN marks a value that is not available yet (warm-up).
type Indicators struct {
	RSI float64

	// Trend averages for the entry side (buy_ema_short / buy_ema_long).
	EntryFast float64
	EntrySlow float64
	// Trend averages for the exit side (sell_ema_short / sell_ema_long).
	ExitFast float64
	ExitSlow float64

	// Reserved for extension; not read by the default rules.
	MACD       float64
	MACDSignal float64
	MACDHist   float64
	ATR        float64
}

// EmptyIndicators returns an Indicators value with every column unset.
func EmptyIndicators() Indicators {
	nan := math.NaN()
	return Indicators{
		RSI:        nan,
		EntryFast:  nan,
		EntrySlow:  nan,
		ExitFast:   nan,
		ExitSlow:   nan,
		MACD:       nan,
		MACDSignal: nan,
		MACDHist:   nan,
		ATR:        nan,
	}
}

// Candle is a raw OHLCV observation before indicators are attached.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Bar is one candle with its indicator columns. Bars are values and are
// never mutated once the feed produced them.
type Bar struct {
	Candle
	Indicators Indicators
}
