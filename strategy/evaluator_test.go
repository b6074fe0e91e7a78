package strategy

import (
	"math"
	"testing"
	"time"

	"github.com/evdnx/solid/config"
	"github.com/evdnx/solid/testutils"
	"github.com/evdnx/solid/types"
)

func defaultEvaluator() Evaluator {
	return NewEvaluator(config.Default())
}

func barOf(s testutils.BarSpec) types.Bar {
	return testutils.Bar(testutils.Epoch, s)
}

/*
-----------------------------------------------------------------------
Scenario 1 – oversold RSI in an uptrend with volume enters.
-----------------------------------------------------------------------
rsi=25 < 30, fast=110 > slow=100, volume=500.
*/
func TestEvaluate_OversoldUptrendEnters(t *testing.T) {
	d := defaultEvaluator().Evaluate(barOf(testutils.BarSpec{
		Close: 100, Volume: 500, RSI: 25,
		EntryFast: 110, EntrySlow: 100,
		ExitFast: 110, ExitSlow: 100,
	}))
	if d.Enter != types.FlagTrue {
		t.Fatalf("expected enter=true, got %s", d.Enter)
	}
	if d.Exit.Active() {
		t.Fatalf("exit must not fire, got %s", d.Exit)
	}
}

/*
-----------------------------------------------------------------------
Scenario 2 – same bar with zero volume does not enter.
-----------------------------------------------------------------------
*/
func TestEvaluate_ZeroVolumeDoesNotEnter(t *testing.T) {
	d := defaultEvaluator().Evaluate(barOf(testutils.BarSpec{
		Close: 100, Volume: 0, RSI: 25,
		EntryFast: 110, EntrySlow: 100,
		ExitFast: 110, ExitSlow: 100,
	}))
	if d.Enter.Active() {
		t.Fatalf("expected no entry on a zero-volume bar, got %s", d.Enter)
	}
}

func TestEvaluate_ZeroVolumeNeverSignals(t *testing.T) {
	ev := defaultEvaluator()
	for _, rsi := range []float64{0, 10, 29, 30, 50, 70, 71, 90, 100} {
		for _, fast := range []float64{50, 100, 150} {
			for _, slow := range []float64{50, 100, 150} {
				d := ev.Evaluate(barOf(testutils.BarSpec{
					Close: 100, Volume: 0, RSI: rsi,
					EntryFast: fast, EntrySlow: slow,
					ExitFast: fast, ExitSlow: slow,
				}))
				if d.Enter.Active() || d.Exit.Active() {
					t.Fatalf("zero volume produced a signal: rsi=%v fast=%v slow=%v -> %+v", rsi, fast, slow, d)
				}
			}
		}
	}
}

func TestEvaluate_EntryIsConjunction(t *testing.T) {
	ev := defaultEvaluator()
	for mask := 0; mask < 8; mask++ {
		oversold := mask&1 != 0
		uptrend := mask&2 != 0
		traded := mask&4 != 0

		spec := testutils.BarSpec{Close: 100, RSI: 40, EntryFast: 90, EntrySlow: 100, ExitFast: 100, ExitSlow: 100}
		if oversold {
			spec.RSI = 25
		}
		if uptrend {
			spec.EntryFast = 110
		}
		if traded {
			spec.Volume = 500
		}

		want := oversold && uptrend && traded
		got := ev.Evaluate(barOf(spec)).Enter
		if got.Active() != want {
			t.Fatalf("mask=%03b: enter=%s, want active=%v", mask, got, want)
		}
		if got == types.FlagUnset {
			t.Fatalf("mask=%03b: non-empty condition list must not be unset", mask)
		}
	}
}

func TestEvaluate_ExitIsConjunction(t *testing.T) {
	ev := defaultEvaluator()
	for mask := 0; mask < 8; mask++ {
		overbought := mask&1 != 0
		downtrend := mask&2 != 0
		traded := mask&4 != 0

		spec := testutils.BarSpec{Close: 100, RSI: 60, EntryFast: 100, EntrySlow: 100, ExitFast: 110, ExitSlow: 100}
		if overbought {
			spec.RSI = 75
		}
		if downtrend {
			spec.ExitFast = 90
		}
		if traded {
			spec.Volume = 500
		}

		want := overbought && downtrend && traded
		if got := ev.Evaluate(barOf(spec)).Exit; got.Active() != want {
			t.Fatalf("mask=%03b: exit=%s, want active=%v", mask, got, want)
		}
	}
}

func TestEvaluate_ThresholdsAreStrict(t *testing.T) {
	ev := defaultEvaluator()
	atBuy := ev.Evaluate(barOf(testutils.BarSpec{Close: 100, Volume: 1, RSI: 30, EntryFast: 110, EntrySlow: 100}))
	if atBuy.Enter.Active() {
		t.Fatal("rsi == buy_rsi must not enter")
	}
	atSell := ev.Evaluate(barOf(testutils.BarSpec{Close: 100, Volume: 1, RSI: 70, ExitFast: 90, ExitSlow: 100}))
	if atSell.Exit.Active() {
		t.Fatal("rsi == sell_rsi must not exit")
	}
	equalAvg := ev.Evaluate(barOf(testutils.BarSpec{Close: 100, Volume: 1, RSI: 10, EntryFast: 100, EntrySlow: 100}))
	if equalAvg.Enter.Active() {
		t.Fatal("fast == slow must not enter")
	}
}

func TestEvaluate_ExitUsesExitAverages(t *testing.T) {
	// Entry averages bullish, exit averages bearish: only the exit side
	// reads the exit pair.
	d := defaultEvaluator().Evaluate(barOf(testutils.BarSpec{
		Close: 100, Volume: 500, RSI: 80,
		EntryFast: 110, EntrySlow: 100,
		ExitFast: 90, ExitSlow: 100,
	}))
	if !d.Exit.Active() {
		t.Fatalf("expected exit from the exit-side averages, got %s", d.Exit)
	}
}

func TestEvaluate_WarmupNaNNeverSignals(t *testing.T) {
	b := testutils.Bar(testutils.Epoch, testutils.BarSpec{Close: 100, Volume: 500})
	b.Indicators = types.EmptyIndicators()
	d := defaultEvaluator().Evaluate(b)
	if d.Enter.Active() || d.Exit.Active() {
		t.Fatalf("NaN indicators must not signal, got %+v", d)
	}

	b.Indicators.RSI = 10
	b.Indicators.EntryFast = 110
	b.Indicators.EntrySlow = math.NaN()
	if defaultEvaluator().Evaluate(b).Enter.Active() {
		t.Fatal("a single NaN average must block entry")
	}
}

func TestConditions_EmptyListIsUnset(t *testing.T) {
	ev := NewEvaluatorWith(nil, Conditions{HasVolume()})
	d := ev.Evaluate(barOf(testutils.EntryBar(100)))
	if d.Enter != types.FlagUnset {
		t.Fatalf("empty entry list must be unset, got %s", d.Enter)
	}
	if d.Enter.Active() {
		t.Fatal("unset must not be active")
	}
	if d.Exit != types.FlagTrue {
		t.Fatalf("exit list with a satisfied predicate must be true, got %s", d.Exit)
	}
}

func TestEvaluator_WithEntryExtendsConjunction(t *testing.T) {
	base := defaultEvaluator()
	strict := base.WithEntry(Above(Close, 1000))

	b := barOf(testutils.EntryBar(100))
	if !base.Evaluate(b).Enter.Active() {
		t.Fatal("base evaluator should enter")
	}
	if strict.Evaluate(b).Enter.Active() {
		t.Fatal("extra predicate must be ANDed in")
	}
	// The base evaluator is unaffected by the extension.
	if !base.Evaluate(b).Enter.Active() {
		t.Fatal("WithEntry must not mutate the receiver")
	}
}

func TestEvaluateSeries_KeepsOrder(t *testing.T) {
	bars := testutils.Series(15*time.Minute,
		testutils.Neutral(100),
		testutils.EntryBar(101),
		testutils.ExitBar(102),
	)
	ds := defaultEvaluator().EvaluateSeries(bars)
	if len(ds) != 3 {
		t.Fatalf("expected 3 decisions, got %d", len(ds))
	}
	if ds[0].Enter.Active() || !ds[1].Enter.Active() || !ds[2].Exit.Active() {
		t.Fatalf("unexpected decisions: %+v", ds)
	}
}
