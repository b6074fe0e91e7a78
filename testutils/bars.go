package testutils

import (
	"time"

	"github.com/evdnx/solid/types"
)

// Epoch is the timestamp of the first bar produced by the builders.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// BarSpec describes the columns a test cares about; everything else is
// filled with neutral values.
type BarSpec struct {
	Close     float64
	Volume    float64
	RSI       float64
	EntryFast float64
	EntrySlow float64
	ExitFast  float64
	ExitSlow  float64
}

// Bar builds a single bar at ts.
func Bar(ts time.Time, s BarSpec) types.Bar {
	ind := types.EmptyIndicators()
	ind.RSI = s.RSI
	ind.EntryFast = s.EntryFast
	ind.EntrySlow = s.EntrySlow
	ind.ExitFast = s.ExitFast
	ind.ExitSlow = s.ExitSlow
	return types.Bar{
		Candle: types.Candle{
			Time:   ts,
			Open:   s.Close,
			High:   s.Close,
			Low:    s.Close,
			Close:  s.Close,
			Volume: s.Volume,
		},
		Indicators: ind,
	}
}

// Series builds consecutive bars spaced by step starting at Epoch.
func Series(step time.Duration, specs ...BarSpec) []types.Bar {
	out := make([]types.Bar, 0, len(specs))
	for i, s := range specs {
		out = append(out, Bar(Epoch.Add(time.Duration(i)*step), s))
	}
	return out
}

// Neutral is a bar that fires neither entry nor exit under default parameters.
func Neutral(close float64) BarSpec {
	return BarSpec{Close: close, Volume: 100, RSI: 50, EntryFast: 100, EntrySlow: 100, ExitFast: 100, ExitSlow: 100}
}

// EntryBar fires the default entry conditions.
func EntryBar(close float64) BarSpec {
	return BarSpec{Close: close, Volume: 500, RSI: 25, EntryFast: 110, EntrySlow: 100, ExitFast: 110, ExitSlow: 100}
}

// ExitBar fires the default exit conditions.
func ExitBar(close float64) BarSpec {
	return BarSpec{Close: close, Volume: 500, RSI: 75, EntryFast: 90, EntrySlow: 100, ExitFast: 90, ExitSlow: 100}
}
