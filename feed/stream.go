package feed

import (
	"fmt"
	"math"

	"github.com/evdnx/goti"
	"github.com/evdnx/solid/logger"
	"github.com/evdnx/solid/types"
)

// Stream produces one Bar per pushed candle. RSI comes from a goti
// Wilder RSI over the full history, so it tracks the batch value. The
// averages, MACD and ATR are recomputed over a bounded window of recent
// candles.
type Stream struct {
	periods Periods
	rsi     *goti.RelativeStrengthIndex
	candles *window
	log     logger.Logger
}

// NewStream builds a Stream whose window holds enough history for the
// averages to settle.
func NewStream(p Periods, log logger.Logger) (*Stream, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	rsi, err := goti.NewRelativeStrengthIndexWithParams(RSIPeriod, goti.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("feed: rsi: %w", err)
	}
	if log == nil {
		log = logger.NewNop()
	}
	size := 8 * p.longest()
	if size < 256 {
		size = 256
	}
	return &Stream{periods: p, rsi: rsi, candles: newWindow(size), log: log}, nil
}

// Len reports how many candles are currently held.
func (s *Stream) Len() int {
	return s.candles.Len()
}

// Push adds c and returns it with the indicators as of c.
func (s *Stream) Push(c types.Candle) (types.Bar, error) {
	if s.candles.Len() > 0 && !c.Time.After(s.candles.Last().Time) {
		return types.Bar{}, fmt.Errorf("%w: %s is not after %s", ErrUnordered, c.Time, s.candles.Last().Time)
	}
	if err := s.rsi.Add(c.Close); err != nil {
		s.log.Warn("rsi_add_failed", logger.Time("time", c.Time), logger.Err(err))
		return types.Bar{}, fmt.Errorf("feed: add candle: %w", err)
	}
	s.candles.Add(c)

	bars, err := Compute(s.candles.Candles(), s.periods)
	if err != nil {
		return types.Bar{}, err
	}
	bar := bars[len(bars)-1]
	bar.Indicators.RSI = s.currentRSI()
	return bar, nil
}

// currentRSI is NaN until goti has seeded its averages.
func (s *Stream) currentRSI() float64 {
	v, err := s.rsi.Calculate()
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}
