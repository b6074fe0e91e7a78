// Package feed computes the indicator columns the strategy reads. It is a
// reference collaborator: the strategy only consumes types.Bar values and
// never calls into this package.
package feed

import (
	"errors"
	"fmt"
	"math"

	"github.com/evdnx/solid/config"
	"github.com/evdnx/solid/types"
	"github.com/markcheno/go-talib"
)

// Indicator periods that are not tunable.
const (
	RSIPeriod    = 14
	ATRPeriod    = 14
	MACDFast     = 12
	MACDSlow     = 26
	MACDSignal   = 9
	macdLookback = MACDSlow - 1 + MACDSignal - 1
)

var ErrUnordered = errors.New("feed: candles are not in time order")

// Periods are the trend-average periods for both sides.
type Periods struct {
	EntryFast int
	EntrySlow int
	ExitFast  int
	ExitSlow  int
}

// PeriodsFrom reads the averages' periods from cfg.
func PeriodsFrom(cfg config.StrategyConfig) Periods {
	return Periods{
		EntryFast: cfg.BuyEMAShort,
		EntrySlow: cfg.BuyEMALong,
		ExitFast:  cfg.SellEMAShort,
		ExitSlow:  cfg.SellEMALong,
	}
}

func (p Periods) validate() error {
	for _, n := range []int{p.EntryFast, p.EntrySlow, p.ExitFast, p.ExitSlow} {
		if n < 2 {
			return fmt.Errorf("feed: average period %d must be at least 2", n)
		}
	}
	return nil
}

func (p Periods) longest() int {
	m := macdLookback + 1
	for _, n := range []int{p.EntryFast, p.EntrySlow, p.ExitFast, p.ExitSlow, RSIPeriod + 1, ATRPeriod + 1} {
		if n > m {
			m = n
		}
	}
	return m
}

// Compute attaches indicators to every candle. Values inside an
// indicator's warm-up are NaN.
func Compute(candles []types.Candle, p Periods) ([]types.Bar, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	for i := 1; i < len(candles); i++ {
		if !candles[i].Time.After(candles[i-1].Time) {
			return nil, fmt.Errorf("%w at index %d", ErrUnordered, i)
		}
	}

	n := len(candles)
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, c := range candles {
		closes[i], highs[i], lows[i] = c.Close, c.High, c.Low
	}

	rsi := guarded(n, RSIPeriod, func() []float64 { return talib.Rsi(closes, RSIPeriod) })
	entryFast := ema(closes, p.EntryFast)
	entrySlow := ema(closes, p.EntrySlow)
	exitFast := ema(closes, p.ExitFast)
	exitSlow := ema(closes, p.ExitSlow)
	atr := guarded(n, ATRPeriod, func() []float64 { return talib.Atr(highs, lows, closes, ATRPeriod) })

	var macd, signal, hist []float64
	if n > macdLookback {
		macd, signal, hist = talib.Macd(closes, MACDFast, MACDSlow, MACDSignal)
		macd, signal, hist = mask(macd, macdLookback), mask(signal, macdLookback), mask(hist, macdLookback)
	} else {
		macd, signal, hist = nans(n), nans(n), nans(n)
	}

	bars := make([]types.Bar, n)
	for i, c := range candles {
		bars[i] = types.Bar{
			Candle: c,
			Indicators: types.Indicators{
				RSI:        rsi[i],
				EntryFast:  entryFast[i],
				EntrySlow:  entrySlow[i],
				ExitFast:   exitFast[i],
				ExitSlow:   exitSlow[i],
				MACD:       macd[i],
				MACDSignal: signal[i],
				MACDHist:   hist[i],
				ATR:        atr[i],
			},
		}
	}
	return bars, nil
}

func ema(closes []float64, period int) []float64 {
	return guarded(len(closes), period-1, func() []float64 { return talib.Ema(closes, period) })
}

// guarded runs fn only when there is data past the lookback; talib
// indexes out of range on shorter inputs and zero-fills the warm-up.
func guarded(n, lookback int, fn func() []float64) []float64 {
	if n <= lookback {
		return nans(n)
	}
	return mask(fn(), lookback)
}

func mask(vals []float64, lookback int) []float64 {
	for i := 0; i < lookback && i < len(vals); i++ {
		vals[i] = math.NaN()
	}
	return vals
}

func nans(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
