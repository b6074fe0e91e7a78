package replay

import (
	"math"
	"time"

	"github.com/evdnx/solid/types"
)

// Trade is a closed round trip.
type Trade struct {
	Pair      string           `json:"pair" yaml:"pair"`
	OpenedAt  time.Time        `json:"opened_at" yaml:"opened_at"`
	ClosedAt  time.Time        `json:"closed_at" yaml:"closed_at"`
	OpenRate  float64          `json:"open_rate" yaml:"open_rate"`
	CloseRate float64          `json:"close_rate" yaml:"close_rate"`
	Qty       float64          `json:"qty" yaml:"qty"`
	Entries   int              `json:"entries" yaml:"entries"`
	Profit    float64          `json:"profit" yaml:"profit"`
	PnL       float64          `json:"pnl" yaml:"pnl"`
	Reason    types.ExitReason `json:"reason" yaml:"reason"`
}

// Duration is how long the trade was open.
func (t Trade) Duration() time.Duration {
	return t.ClosedAt.Sub(t.OpenedAt)
}

// IsLoss reports a closed trade with negative profit.
func (t Trade) IsLoss() bool {
	return t.Profit < 0
}

// Summary aggregates a run.
type Summary struct {
	Pair           string                   `json:"pair" yaml:"pair"`
	Bars           int                      `json:"bars" yaml:"bars"`
	Trades         int                      `json:"trades" yaml:"trades"`
	Wins           int                      `json:"wins" yaml:"wins"`
	Losses         int                      `json:"losses" yaml:"losses"`
	WinRate        float64                  `json:"win_rate" yaml:"win_rate"`
	TotalPnL       float64                  `json:"total_pnl" yaml:"total_pnl"`
	StartingEquity float64                  `json:"starting_equity" yaml:"starting_equity"`
	FinalEquity    float64                  `json:"final_equity" yaml:"final_equity"`
	MaxDrawdown    float64                  `json:"max_drawdown" yaml:"max_drawdown"`
	ByReason       map[types.ExitReason]int `json:"by_reason" yaml:"by_reason"`
	LockedBars     int                      `json:"locked_bars" yaml:"locked_bars"`
}

// Summarize builds a Summary from closed trades. MaxDrawdown is measured
// on realised equity after each close, as a fraction of the running peak.
func Summarize(pair string, start float64, trades []Trade) Summary {
	s := Summary{
		Pair:           pair,
		Trades:         len(trades),
		StartingEquity: start,
		FinalEquity:    start,
		ByReason:       map[types.ExitReason]int{},
	}
	peak := start
	equity := start
	for _, t := range trades {
		s.ByReason[t.Reason]++
		s.TotalPnL += t.PnL
		if t.PnL > 0 {
			s.Wins++
		} else if t.PnL < 0 {
			s.Losses++
		}
		equity += t.PnL
		if equity > peak {
			peak = equity
		}
		if peak > 0 {
			s.MaxDrawdown = math.Max(s.MaxDrawdown, (peak-equity)/peak)
		}
	}
	s.FinalEquity = equity
	if s.Trades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Trades)
	}
	return s
}
