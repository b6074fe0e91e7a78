package strategy

import (
	"time"

	"github.com/evdnx/solid/config"
	"github.com/evdnx/solid/logger"
	"github.com/evdnx/solid/metrics"
	"github.com/evdnx/solid/types"
)

// Solid bundles the evaluator, guard, ROI curve and protection policy
// behind the hooks an execution engine calls. It holds no mutable state
// after construction and is safe to share across pairs.
type Solid struct {
	Cfg config.StrategyConfig
	Log logger.Logger

	eval  Evaluator
	guard Guard
	roi   ROICurve
}

// Option customises a Solid at construction.
type Option func(*Solid)

// WithClock replaces the wall clock used by the ROI curve. nil restores
// time.Now.
func WithClock(now func() time.Time) Option {
	if now == nil {
		now = time.Now
	}
	return func(s *Solid) { s.roi.now = now }
}

// WithEntryConditions appends predicates to the entry list.
func WithEntryConditions(ps ...Predicate) Option {
	return func(s *Solid) { s.eval = s.eval.WithEntry(ps...) }
}

// WithExitConditions appends predicates to the exit list.
func WithExitConditions(ps ...Predicate) Option {
	return func(s *Solid) { s.eval = s.eval.WithExit(ps...) }
}

// WithROIBands replaces the ROI bands.
func WithROIBands(bands []ROIBand) Option {
	return func(s *Solid) { s.roi = s.roi.WithBands(bands) }
}

// NewSolid validates cfg and wires the components.
func NewSolid(cfg config.StrategyConfig, log logger.Logger, opts ...Option) (*Solid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}
	s := &Solid{
		Cfg:   cfg,
		Log:   log,
		eval:  NewEvaluator(cfg),
		guard: NewGuard(cfg),
		roi:   NewROICurve(cfg, nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Solid) Evaluator() Evaluator { return s.eval }
func (s *Solid) Guard() Guard { return s.guard }
func (s *Solid) ROI() ROICurve { return s.roi }

// Evaluate returns the entry and exit flags for one bar.
func (s *Solid) Evaluate(b types.Bar) types.Decision {
	d := s.eval.Evaluate(b)
	if d.Enter.Active() {
		metrics.SignalsTotal.WithLabelValues("enter").Inc()
		s.Log.Debug("entry_signal",
			logger.Time("bar", b.Time),
			logger.Float64("close", b.Close),
			logger.Float64("rsi", b.Indicators.RSI),
		)
	}
	if d.Exit.Active() {
		metrics.SignalsTotal.WithLabelValues("exit").Inc()
		s.Log.Debug("exit_signal",
			logger.Time("bar", b.Time),
			logger.Float64("close", b.Close),
			logger.Float64("rsi", b.Indicators.RSI),
		)
	}
	return d
}

// EvaluateSeries evaluates bars in order.
func (s *Solid) EvaluateSeries(bars []types.Bar) []types.Decision {
	out := make([]types.Decision, len(bars))
	for i, b := range bars {
		out[i] = s.Evaluate(b)
	}
	return out
}

// TrailingExit is the trailing-stop hook.
func (s *Solid) TrailingExit(pos types.Position, rate float64) (types.Exit, bool) {
	ex, ok := s.guard.TrailingExit(pos, rate)
	return s.advise(pos, ex, ok)
}

// CustomExit is the time-exit then profit-taking hook.
func (s *Solid) CustomExit(pos types.Position, rate, profit float64, now time.Time) (types.Exit, bool) {
	ex, ok := s.guard.CustomExit(pos, rate, profit, now)
	return s.advise(pos, ex, ok)
}

// StopLossExit is the fixed stop-loss hook.
func (s *Solid) StopLossExit(pos types.Position, rate float64) (types.Exit, bool) {
	ex, ok := s.guard.StopLossExit(pos, rate)
	return s.advise(pos, ex, ok)
}

// DynamicROI returns the profit floor for pos at its current age.
func (s *Solid) DynamicROI(pos types.Position, profit float64, barTime time.Time) float64 {
	floor := s.roi.Floor(pos, profit, barTime)
	metrics.ROIFloor.Observe(floor)
	return floor
}

// ShouldTakeProfit reports whether the ROI curve asks for an exit.
func (s *Solid) ShouldTakeProfit(pos types.Position, profit float64, barTime time.Time) bool {
	return s.roi.ShouldTakeProfit(pos, profit, barTime)
}

// Protections returns the account-level guard list.
func (s *Solid) Protections() []GuardSpec { return Protections(s.Cfg) }

// MaxEntryPositionAdjustment is how many times the engine may add to an
// open position.
func (s *Solid) MaxEntryPositionAdjustment() int { return s.Cfg.MaxEntryPositionAdjustment }

func (s *Solid) advise(pos types.Position, ex types.Exit, ok bool) (types.Exit, bool) {
	if !ok {
		return ex, false
	}
	metrics.ExitAdvisories.WithLabelValues(string(ex.Reason)).Inc()
	s.Log.Info("exit_advised",
		logger.String("pair", pos.Pair),
		logger.String("reason", string(ex.Reason)),
		logger.Float64("price", ex.Price),
		logger.Float64("open_rate", pos.OpenRate),
	)
	return ex, true
}
