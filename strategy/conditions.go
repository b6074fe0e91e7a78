package strategy

import "github.com/evdnx/solid/types"

// Column reads one numeric series from a bar.
type Column func(b types.Bar) float64

var (
	RSI       Column = func(b types.Bar) float64 { return b.Indicators.RSI }
	EntryFast Column = func(b types.Bar) float64 { return b.Indicators.EntryFast }
	EntrySlow Column = func(b types.Bar) float64 { return b.Indicators.EntrySlow }
	ExitFast  Column = func(b types.Bar) float64 { return b.Indicators.ExitFast }
	ExitSlow  Column = func(b types.Bar) float64 { return b.Indicators.ExitSlow }
	Volume    Column = func(b types.Bar) float64 { return b.Volume }
	Close     Column = func(b types.Bar) float64 { return b.Close }
)

// Predicate is one boolean condition on a bar.
type Predicate func(b types.Bar) bool

// Conditions is an ordered list of predicates combined by logical AND.
type Conditions []Predicate

// Reduce evaluates the conjunction of every predicate. An empty list
// yields FlagUnset: no column is produced for that side. Evaluation stops
// at the first false predicate.
func (c Conditions) Reduce(b types.Bar) types.Flag {
	if len(c) == 0 {
		return types.FlagUnset
	}
	for _, p := range c {
		if !p(b) {
			return types.FlagFalse
		}
	}
	return types.FlagTrue
}

// Below is true when col < threshold. NaN never satisfies it.
func Below(col Column, threshold float64) Predicate {
	return func(b types.Bar) bool { return col(b) < threshold }
}

// Above is true when col > threshold. NaN never satisfies it.
func Above(col Column, threshold float64) Predicate {
	return func(b types.Bar) bool { return col(b) > threshold }
}

// Greater is true when a > b on the same bar.
func Greater(a, b Column) Predicate {
	return func(bar types.Bar) bool { return a(bar) > b(bar) }
}

// Less is true when a < b on the same bar.
func Less(a, b Column) Predicate {
	return func(bar types.Bar) bool { return a(bar) < b(bar) }
}

// HasVolume rejects bars with no traded volume (halted or illiquid markets).
func HasVolume() Predicate {
	return Above(Volume, 0)
}
