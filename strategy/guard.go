package strategy

import (
	"math"
	"time"

	"github.com/evdnx/solid/config"
	"github.com/evdnx/solid/types"
)

// Guard holds the per-position exit checks. Each check is advisory and
// independent: it returns (exit, true) when it wants out, and never
// fails the caller when inputs are missing.
type Guard struct {
	trailing    float64
	maxDuration time.Duration
	profitTake  float64
	stopLoss    float64
}

// NewGuard reads the guard settings from cfg.
func NewGuard(cfg config.StrategyConfig) Guard {
	return Guard{
		trailing:    cfg.TrailingStop,
		maxDuration: time.Duration(cfg.MaxTradeDuration) * time.Minute,
		profitTake:  cfg.ProfitTaking,
		stopLoss:    cfg.StopLoss,
	}
}

// TrailingStopPrice returns open*(1-trailing), or false when either input
// is undefined.
func (g Guard) TrailingStopPrice(pos types.Position) (float64, bool) {
	if !pos.HasOpenRate() || !usableFraction(g.trailing) {
		return 0, false
	}
	return pos.OpenRate * (1 - g.trailing), true
}

// TrailingExit suggests an exit at the stop price once rate <= stop price.
func (g Guard) TrailingExit(pos types.Position, rate float64) (types.Exit, bool) {
	stop, ok := g.TrailingStopPrice(pos)
	if !ok || !(rate <= stop) {
		return types.Exit{}, false
	}
	return types.Exit{Price: stop, Reason: types.ExitTrailingStop}, true
}

// TimeExit fires when the position has been open strictly longer than the
// maximum hold duration. The exit is at the current rate.
func (g Guard) TimeExit(pos types.Position, rate float64, now time.Time) (types.Exit, bool) {
	if !pos.HasOpenTime() || g.maxDuration <= 0 {
		return types.Exit{}, false
	}
	if pos.Age(now) <= g.maxDuration {
		return types.Exit{}, false
	}
	return types.Exit{Price: rate, Reason: types.ExitTimeLimit}, true
}

// ProfitExit fires once profit strictly exceeds the profit-taking threshold.
func (g Guard) ProfitExit(rate, profit float64) (types.Exit, bool) {
	if !usableFraction(g.profitTake) || !(profit > g.profitTake) {
		return types.Exit{}, false
	}
	return types.Exit{Price: rate, Reason: types.ExitProfitTaking}, true
}

// CustomExit runs the time exit before profit taking, so a trade past its
// duration budget is always recorded as a time exit.
func (g Guard) CustomExit(pos types.Position, rate, profit float64, now time.Time) (types.Exit, bool) {
	if ex, ok := g.TimeExit(pos, rate, now); ok {
		return ex, true
	}
	return g.ProfitExit(rate, profit)
}

// StopLossExit fires when rate falls to the fixed stop loss below the open
// rate; the exit is at the stop price.
func (g Guard) StopLossExit(pos types.Position, rate float64) (types.Exit, bool) {
	if !pos.HasOpenRate() || g.stopLoss >= 0 || math.IsNaN(g.stopLoss) {
		return types.Exit{}, false
	}
	stop := pos.OpenRate * (1 + g.stopLoss)
	if !(rate <= stop) {
		return types.Exit{}, false
	}
	return types.Exit{Price: stop, Reason: types.ExitStopLoss}, true
}

// Check applies trailing stop, then the custom exit; first hit wins.
func (g Guard) Check(pos types.Position, rate, profit float64, now time.Time) (types.Exit, bool) {
	if ex, ok := g.TrailingExit(pos, rate); ok {
		return ex, true
	}
	return g.CustomExit(pos, rate, profit, now)
}

func usableFraction(f float64) bool {
	return f > 0 && !math.IsNaN(f) && !math.IsInf(f, 0)
}
