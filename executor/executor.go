package executor

import (
	"errors"
	"fmt"

	"github.com/evdnx/solid/logger"
	"github.com/evdnx/solid/types"
)

var (
	ErrInsufficientCash     = errors.New("paper executor: insufficient cash")
	ErrInsufficientPosition = errors.New("paper executor: insufficient position")
)

type Executor interface {
	Submit(o types.Order) error
	// For back-testing we expose the portfolio state
	Equity() float64
	Position(symbol string) (qty float64, avgPrice float64)
}

// PaperExecutor is a long-only paper trader: perfect fills, no slippage.
type PaperExecutor struct {
	equity    float64
	positions map[string]float64
	avgPrice  map[string]float64
	log       logger.Logger
}

func NewPaperExecutor(startEquity float64, log logger.Logger) *PaperExecutor {
	if log == nil {
		log = logger.NewNop()
	}
	return &PaperExecutor{
		equity:    startEquity,
		positions: make(map[string]float64),
		avgPrice:  make(map[string]float64),
		log:       log,
	}
}

func (p *PaperExecutor) Submit(o types.Order) error {
	if o.Qty == 0 {
		return nil
	}
	cost := o.Price * o.Qty
	switch o.Side {
	case types.Buy:
		if cost > p.equity {
			return fmt.Errorf("%w: need %.2f, have %.2f", ErrInsufficientCash, cost, p.equity)
		}
		p.equity -= cost
		prevQty := p.positions[o.Symbol]
		p.positions[o.Symbol] = prevQty + o.Qty
		p.avgPrice[o.Symbol] = (p.avgPrice[o.Symbol]*prevQty + cost) / p.positions[o.Symbol]
	case types.Sell:
		held := p.positions[o.Symbol]
		if o.Qty > held {
			return fmt.Errorf("%w: sell %.6f, hold %.6f", ErrInsufficientPosition, o.Qty, held)
		}
		p.equity += cost
		p.positions[o.Symbol] = held - o.Qty
		if p.positions[o.Symbol] == 0 {
			delete(p.positions, o.Symbol)
			delete(p.avgPrice, o.Symbol)
		}
	default:
		return fmt.Errorf("paper executor: unknown side %q", o.Side)
	}
	p.log.Debug("paper_fill",
		logger.String("symbol", o.Symbol),
		logger.String("side", string(o.Side)),
		logger.Float64("qty", o.Qty),
		logger.Float64("price", o.Price),
		logger.Float64("equity", p.equity),
	)
	return nil
}

func (p *PaperExecutor) Equity() float64 { return p.equity }

func (p *PaperExecutor) Position(sym string) (float64, float64) {
	return p.positions[sym], p.avgPrice[sym]
}
