package strategy

import (
	"github.com/evdnx/solid/config"
	"github.com/evdnx/solid/types"
)

// Evaluator maps one bar to entry and exit flags. It is a value: build it
// once per run and share it freely.
type Evaluator struct {
	entry Conditions
	exit  Conditions
}

// NewEvaluator builds the default entry and exit condition lists.
//
//	enter: rsi < buy_rsi  && entry_fast > entry_slow && volume > 0
//	exit:  rsi > sell_rsi && exit_fast  < exit_slow  && volume > 0
func NewEvaluator(cfg config.StrategyConfig) Evaluator {
	return Evaluator{
		entry: Conditions{
			Below(RSI, float64(cfg.BuyRSI)),
			Greater(EntryFast, EntrySlow),
			HasVolume(),
		},
		exit: Conditions{
			Above(RSI, float64(cfg.SellRSI)),
			Less(ExitFast, ExitSlow),
			HasVolume(),
		},
	}
}

// NewEvaluatorWith builds an evaluator from explicit condition lists.
func NewEvaluatorWith(entry, exit Conditions) Evaluator {
	return Evaluator{
		entry: append(Conditions(nil), entry...),
		exit:  append(Conditions(nil), exit...),
	}
}

// WithEntry returns a copy with extra entry predicates appended.
func (e Evaluator) WithEntry(ps ...Predicate) Evaluator {
	e.entry = append(append(Conditions(nil), e.entry...), ps...)
	return e
}

// WithExit returns a copy with extra exit predicates appended.
func (e Evaluator) WithExit(ps ...Predicate) Evaluator {
	e.exit = append(append(Conditions(nil), e.exit...), ps...)
	return e
}

// Evaluate computes both sides independently. Both may be true on the
// same bar; the engine decides priority.
func (e Evaluator) Evaluate(b types.Bar) types.Decision {
	return types.Decision{
		Enter: e.entry.Reduce(b),
		Exit:  e.exit.Reduce(b),
	}
}

// EvaluateSeries evaluates every bar in order.
func (e Evaluator) EvaluateSeries(bars []types.Bar) []types.Decision {
	out := make([]types.Decision, len(bars))
	for i, b := range bars {
		out[i] = e.Evaluate(b)
	}
	return out
}
