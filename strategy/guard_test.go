package strategy

import (
	"math"
	"testing"
	"time"

	"github.com/evdnx/solid/config"
	"github.com/evdnx/solid/types"
)

var openedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func openPosition(rate float64) types.Position {
	return types.Position{Pair: "BTC/USDT", OpenRate: rate, OpenedAt: openedAt, Side: types.Buy}
}

/*
-----------------------------------------------------------------------
Scenario 3 – trailing stop at 5 % below a 100 open fires at 95.
-----------------------------------------------------------------------
*/
func TestTrailingExit_FiresAtStopPrice(t *testing.T) {
	g := NewGuard(config.Default())

	ex, ok := g.TrailingExit(openPosition(100), 94)
	if !ok {
		t.Fatal("expected trailing exit at rate 94")
	}
	if math.Abs(ex.Price-95) > 1e-9 {
		t.Fatalf("expected exit at 95, got %v", ex.Price)
	}
	if ex.Reason != types.ExitTrailingStop {
		t.Fatalf("unexpected reason %s", ex.Reason)
	}
}

func TestTrailingExit_InclusiveAtStop(t *testing.T) {
	g := NewGuard(config.Default())
	stop, _ := g.TrailingStopPrice(openPosition(100))
	if _, ok := g.TrailingExit(openPosition(100), stop); !ok {
		t.Fatal("rate == stop price must exit")
	}
	if _, ok := g.TrailingExit(openPosition(100), stop+0.01); ok {
		t.Fatal("rate above stop price must not exit")
	}
}

func TestTrailingStop_MonotonicInFraction(t *testing.T) {
	prev := math.Inf(1)
	for f := 0.02; f <= 0.10+1e-9; f += 0.01 {
		cfg := config.Default()
		cfg.TrailingStop = f
		stop, ok := NewGuard(cfg).TrailingStopPrice(openPosition(250))
		if !ok {
			t.Fatalf("fraction %v: expected a stop price", f)
		}
		if stop > prev {
			t.Fatalf("fraction %v produced a higher stop (%v) than a smaller fraction (%v)", f, stop, prev)
		}
		prev = stop
	}
}

func TestTrailingExit_UndefinedInputsNoAction(t *testing.T) {
	g := NewGuard(config.Default())
	for _, rate := range []float64{0, -1, math.NaN()} {
		if _, ok := g.TrailingExit(openPosition(rate), 1); ok {
			t.Fatalf("open rate %v must not produce an exit", rate)
		}
	}
	var unset Guard
	if _, ok := unset.TrailingExit(openPosition(100), 1); ok {
		t.Fatal("an unset trailing fraction must not produce an exit")
	}
}

/*
-----------------------------------------------------------------------
Scenario 5 – 125 minutes open with a 120 minute budget exits at market.
-----------------------------------------------------------------------
*/
func TestTimeExit_PastBudgetExitsAtRate(t *testing.T) {
	g := NewGuard(config.Default())
	now := openedAt.Add(125 * time.Minute)

	ex, ok := g.TimeExit(openPosition(100), 101.5, now)
	if !ok {
		t.Fatal("expected time exit")
	}
	if ex.Price != 101.5 || ex.Reason != types.ExitTimeLimit {
		t.Fatalf("unexpected exit %+v", ex)
	}
}

func TestTimeExit_BoundaryIsStrict(t *testing.T) {
	g := NewGuard(config.Default())
	if _, ok := g.TimeExit(openPosition(100), 100, openedAt.Add(120*time.Minute)); ok {
		t.Fatal("elapsed == max must not exit")
	}
	if _, ok := g.TimeExit(openPosition(100), 100, openedAt.Add(120*time.Minute+time.Second)); !ok {
		t.Fatal("elapsed > max must exit")
	}
}

func TestTimeExit_UnknownOpenTime(t *testing.T) {
	g := NewGuard(config.Default())
	pos := openPosition(100)
	pos.OpenedAt = time.Time{}
	if _, ok := g.TimeExit(pos, 100, openedAt.Add(24*time.Hour)); ok {
		t.Fatal("unknown open time must not exit")
	}
}

func TestProfitExit_ThresholdIsStrict(t *testing.T) {
	g := NewGuard(config.Default())
	if _, ok := g.ProfitExit(105, 0.05); ok {
		t.Fatal("profit == threshold must not exit")
	}
	ex, ok := g.ProfitExit(106, 0.06)
	if !ok || ex.Price != 106 || ex.Reason != types.ExitProfitTaking {
		t.Fatalf("expected profit exit at 106, got %+v ok=%v", ex, ok)
	}
}

func TestCustomExit_TimeBeatsProfit(t *testing.T) {
	g := NewGuard(config.Default())
	now := openedAt.Add(3 * time.Hour)

	ex, ok := g.CustomExit(openPosition(100), 110, 0.10, now)
	if !ok {
		t.Fatal("expected an exit")
	}
	if ex.Reason != types.ExitTimeLimit {
		t.Fatalf("time exit must win over profit taking, got %s", ex.Reason)
	}
}

func TestCustomExit_ProfitWithinBudget(t *testing.T) {
	g := NewGuard(config.Default())
	ex, ok := g.CustomExit(openPosition(100), 110, 0.10, openedAt.Add(30*time.Minute))
	if !ok || ex.Reason != types.ExitProfitTaking {
		t.Fatalf("expected profit taking, got %+v ok=%v", ex, ok)
	}
	if _, ok := g.CustomExit(openPosition(100), 101, 0.01, openedAt.Add(30*time.Minute)); ok {
		t.Fatal("no exit expected inside budget with small profit")
	}
}

func TestStopLossExit(t *testing.T) {
	cfg := config.Default()
	cfg.StopLoss = -0.10
	g := NewGuard(cfg)
	if _, ok := g.StopLossExit(openPosition(100), 91); ok {
		t.Fatal("91 is above the 90 stop")
	}
	ex, ok := g.StopLossExit(openPosition(100), 89)
	if !ok || math.Abs(ex.Price-90) > 1e-9 || ex.Reason != types.ExitStopLoss {
		t.Fatalf("expected stop loss at 90, got %+v ok=%v", ex, ok)
	}
}

func TestCheck_TrailingFirst(t *testing.T) {
	g := NewGuard(config.Default())
	ex, ok := g.Check(openPosition(100), 94, -0.06, openedAt.Add(5*time.Hour))
	if !ok || ex.Reason != types.ExitTrailingStop {
		t.Fatalf("trailing stop should win, got %+v ok=%v", ex, ok)
	}
}
