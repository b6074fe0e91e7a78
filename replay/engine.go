// Package replay runs the strategy bar by bar against a paper executor.
// It plays the part of the execution engine: it owns positions, trade
// history and protection locks, and calls the strategy hooks in the order
// stop loss, trailing stop, custom exit, ROI, exit signal.
package replay

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/evdnx/solid/config"
	"github.com/evdnx/solid/executor"
	"github.com/evdnx/solid/logger"
	"github.com/evdnx/solid/metrics"
	"github.com/evdnx/solid/risk"
	"github.com/evdnx/solid/strategy"
	"github.com/evdnx/solid/types"
)

var ErrNotChronological = errors.New("replay: bars are not in time order")

type openTrade struct {
	openedAt time.Time
	qty      float64
	avgRate  float64
	entries  int
}

// Engine replays bars for a single pair.
type Engine struct {
	strat    *strategy.Solid
	exec     executor.Executor
	settings config.ReplaySettings
	log      logger.Logger

	timeframe   time.Duration
	protections []strategy.GuardSpec

	open        *openTrade
	trades      []Trade
	lockedUntil time.Time
	lastBar     types.Bar
	bars        int
	lockedBars  int
}

// NewEngine wires strat to exec. The executor must start flat for the pair.
func NewEngine(strat *strategy.Solid, exec executor.Executor, settings config.ReplaySettings, log logger.Logger) (*Engine, error) {
	if strat == nil || exec == nil {
		return nil, errors.New("replay: strategy and executor are required")
	}
	if settings.Pair == "" {
		return nil, errors.New("replay: pair cannot be empty")
	}
	if settings.StakeFraction <= 0 || settings.StakeFraction > 1 {
		return nil, fmt.Errorf("replay: stake fraction %f must be in (0, 1]", settings.StakeFraction)
	}
	switch settings.StakeMode {
	case "", config.StakeModeFraction:
	case config.StakeModeStopDistance:
		if settings.RiskPerTrade <= 0 || settings.RiskPerTrade > 1 {
			return nil, fmt.Errorf("replay: risk per trade %f must be in (0, 1]", settings.RiskPerTrade)
		}
	default:
		return nil, fmt.Errorf("replay: unknown stake mode %q", settings.StakeMode)
	}
	if qty, _ := exec.Position(settings.Pair); qty != 0 {
		return nil, fmt.Errorf("replay: executor already holds %f %s", qty, settings.Pair)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{
		strat:       strat,
		exec:        exec,
		settings:    settings,
		log:         log,
		timeframe:   strat.Cfg.Timeframe,
		protections: strat.Protections(),
	}, nil
}

// Run steps through bars, force-closes any trade left open on the last
// bar and returns the run summary.
func (e *Engine) Run(ctx context.Context, bars []types.Bar) (Summary, error) {
	for _, b := range bars {
		if err := ctx.Err(); err != nil {
			return e.Summary(), err
		}
		if err := e.Step(b); err != nil {
			return e.Summary(), err
		}
	}
	if e.open != nil && e.bars > 0 {
		if err := e.close(e.lastBar, types.Exit{Price: e.lastBar.Close, Reason: types.ExitForce}); err != nil {
			return e.Summary(), err
		}
	}
	s := e.Summary()
	e.log.Info("replay_finished",
		logger.String("pair", s.Pair),
		logger.Int("bars", s.Bars),
		logger.Int("trades", s.Trades),
		logger.Float64("total_pnl", s.TotalPnL),
		logger.Float64("final_equity", s.FinalEquity),
	)
	return s, nil
}

// Step processes one closed bar.
func (e *Engine) Step(b types.Bar) error {
	if e.bars > 0 && !b.Time.After(e.lastBar.Time) {
		return fmt.Errorf("%w: %s after %s", ErrNotChronological, b.Time, e.lastBar.Time)
	}
	e.lastBar = b
	e.bars++

	d := e.strat.Evaluate(b)

	if e.open != nil {
		if ex, ok := e.checkExit(b, d); ok {
			return e.close(b, ex)
		}
		if d.Enter.Active() && !d.Exit.Active() && e.open.entries <= e.strat.MaxEntryPositionAdjustment() {
			return e.buy(b, "position_adjustment")
		}
		return nil
	}

	if e.Locked(b.Time) {
		e.lockedBars++
		if d.Enter.Active() {
			e.log.Debug("entry_blocked",
				logger.String("pair", e.settings.Pair),
				logger.Time("bar", b.Time),
				logger.Time("locked_until", e.lockedUntil),
			)
		}
		return nil
	}
	// An exit signal on the same bar cancels the entry.
	if d.Enter.Active() && !d.Exit.Active() {
		return e.buy(b, "entry_signal")
	}
	return nil
}

func (e *Engine) position(rate float64) types.Position {
	pos := types.Position{
		Pair:     e.settings.Pair,
		OpenRate: e.open.avgRate,
		OpenedAt: e.open.openedAt,
		Side:     types.Buy,
	}
	pos.Profit = pos.ProfitAt(rate)
	return pos
}

// checkExit runs the guards against b. Stops are tested against the bar
// low and filled at the stop price, or at the open when the bar gapped
// through it.
func (e *Engine) checkExit(b types.Bar, d types.Decision) (types.Exit, bool) {
	low := b.Low
	if low <= 0 {
		low = b.Close
	}
	if ex, ok := e.strat.StopLossExit(e.position(low), low); ok {
		return gapFill(ex, b), true
	}
	if ex, ok := e.strat.TrailingExit(e.position(low), low); ok {
		return gapFill(ex, b), true
	}
	pos := e.position(b.Close)
	if ex, ok := e.strat.CustomExit(pos, b.Close, pos.Profit, b.Time); ok {
		return ex, true
	}
	if e.strat.ShouldTakeProfit(pos, pos.Profit, b.Time) {
		floor := e.strat.DynamicROI(pos, pos.Profit, b.Time)
		e.log.Debug("roi_reached",
			logger.String("pair", pos.Pair),
			logger.Float64("profit", pos.Profit),
			logger.Float64("floor", floor),
		)
		return types.Exit{Price: b.Close, Reason: types.ExitROI}, true
	}
	if d.Exit.Active() {
		return types.Exit{Price: b.Close, Reason: types.ExitSignal}, true
	}
	return types.Exit{}, false
}

func gapFill(ex types.Exit, b types.Bar) types.Exit {
	if b.Open > 0 && b.Open < ex.Price {
		ex.Price = b.Open
	}
	return ex
}

func (e *Engine) buy(b types.Bar, ctx string) error {
	qty := e.stake(b.Close)
	if qty <= 0 {
		e.log.Warn("stake_too_small",
			logger.String("pair", e.settings.Pair),
			logger.Float64("equity", e.exec.Equity()),
			logger.Float64("price", b.Close),
		)
		return nil
	}
	o := types.Order{Symbol: e.settings.Pair, Side: types.Buy, Qty: qty, Price: b.Close, Comment: ctx}
	if err := e.exec.Submit(o); err != nil {
		e.log.Error("order_submit_failed",
			logger.String("symbol", o.Symbol),
			logger.String("side", string(o.Side)),
			logger.Float64("qty", o.Qty),
			logger.Err(err),
		)
		return fmt.Errorf("replay: buy %s: %w", o.Symbol, err)
	}
	held, avg := e.exec.Position(e.settings.Pair)
	if e.open == nil {
		e.open = &openTrade{openedAt: b.Time}
	}
	e.open.qty = held
	e.open.avgRate = avg
	e.open.entries++
	e.log.Info("order_submitted",
		logger.String("symbol", o.Symbol),
		logger.String("side", string(o.Side)),
		logger.Float64("qty", o.Qty),
		logger.Float64("price", o.Price),
		logger.String("ctx", ctx),
	)
	return nil
}

// stake sizes an entry at price. Stop-distance sizing never commits more
// than the fraction stake would.
func (e *Engine) stake(price float64) float64 {
	cash := e.exec.Equity()
	capped := risk.Stake(cash, e.settings.StakeFraction, price)
	if e.settings.StakeMode != config.StakeModeStopDistance {
		return capped
	}
	return math.Min(risk.ByStopDistance(cash, e.settings.RiskPerTrade, e.strat.Cfg.StopLoss, price), capped)
}

func (e *Engine) close(b types.Bar, ex types.Exit) error {
	o := types.Order{
		Symbol:  e.settings.Pair,
		Side:    types.Sell,
		Qty:     e.open.qty,
		Price:   ex.Price,
		Comment: string(ex.Reason),
	}
	if err := e.exec.Submit(o); err != nil {
		e.log.Error("order_submit_failed",
			logger.String("symbol", o.Symbol),
			logger.String("side", string(o.Side)),
			logger.Float64("qty", o.Qty),
			logger.Err(err),
		)
		return fmt.Errorf("replay: close %s: %w", o.Symbol, err)
	}
	t := Trade{
		Pair:      e.settings.Pair,
		OpenedAt:  e.open.openedAt,
		ClosedAt:  b.Time,
		OpenRate:  e.open.avgRate,
		CloseRate: ex.Price,
		Qty:       e.open.qty,
		Entries:   e.open.entries,
		Profit:    ex.Price/e.open.avgRate - 1,
		PnL:       (ex.Price - e.open.avgRate) * e.open.qty,
		Reason:    ex.Reason,
	}
	e.trades = append(e.trades, t)
	e.open = nil

	metrics.TradesClosed.WithLabelValues(string(t.Reason)).Inc()
	metrics.EquityGauge.Set(e.exec.Equity())
	e.log.Info("trade_closed",
		logger.String("pair", t.Pair),
		logger.String("reason", string(t.Reason)),
		logger.Float64("profit", t.Profit),
		logger.Float64("pnl", t.PnL),
		logger.Duration("duration", t.Duration()),
	)
	e.applyProtections(t)
	return nil
}

// applyProtections extends the pair lock after a close.
func (e *Engine) applyProtections(closed Trade) {
	for _, g := range e.protections {
		var until time.Time
		switch g.Method {
		case strategy.MethodCooldownPeriod:
			until = closed.ClosedAt.Add(g.StopDuration(e.timeframe))
		case strategy.MethodStoplossGuard:
			if e.stoppedOut(closed.ClosedAt, g.Lookback(e.timeframe)) >= g.TradeLimit {
				until = closed.ClosedAt.Add(g.StopDuration(e.timeframe))
			}
		default:
			continue
		}
		if until.After(e.lockedUntil) {
			e.lockedUntil = until
			e.log.Info("pair_locked",
				logger.String("pair", e.settings.Pair),
				logger.String("method", g.Method),
				logger.Time("until", until),
			)
		}
	}
}

// stoppedOut counts losing stop exits closed within lookback of now.
func (e *Engine) stoppedOut(now time.Time, lookback time.Duration) int {
	since := now.Add(-lookback)
	n := 0
	for i := len(e.trades) - 1; i >= 0; i-- {
		t := e.trades[i]
		if !t.ClosedAt.After(since) {
			break
		}
		if t.IsLoss() && (t.Reason == types.ExitStopLoss || t.Reason == types.ExitTrailingStop) {
			n++
		}
	}
	return n
}

// Locked reports whether new entries are blocked at t.
func (e *Engine) Locked(t time.Time) bool {
	return t.Before(e.lockedUntil)
}

// LockedUntil is the end of the current pair lock.
func (e *Engine) LockedUntil() time.Time { return e.lockedUntil }

// Open reports whether a trade is open.
func (e *Engine) Open() bool { return e.open != nil }

// Trades returns the closed trades so far.
func (e *Engine) Trades() []Trade {
	out := make([]Trade, len(e.trades))
	copy(out, e.trades)
	return out
}

// Summary aggregates the closed trades so far.
func (e *Engine) Summary() Summary {
	s := Summarize(e.settings.Pair, e.settings.StartingEquity, e.trades)
	s.Bars = e.bars
	s.LockedBars = e.lockedBars
	return s
}
