package strategy

import (
	"time"

	"github.com/evdnx/solid/config"
)

const (
	MethodCooldownPeriod = "CooldownPeriod"
	MethodStoplossGuard  = "StoplossGuard"
)

// Protection defaults, in candles of the strategy timeframe.
const (
	CooldownCandles      = 48
	StoplossLookback     = 24 * 3
	StoplossTradeLimit   = 3
	StoplossStopDuration = 24
)

// GuardSpec declares one account-level protection. The engine enforces it;
// nothing here keeps state.
type GuardSpec struct {
	Method                string `yaml:"method" json:"method"`
	StopDurationCandles   int    `yaml:"stop_duration_candles" json:"stop_duration_candles"`
	LookbackPeriodCandles int    `yaml:"lookback_period_candles,omitempty" json:"lookback_period_candles,omitempty"`
	TradeLimit            int    `yaml:"trade_limit,omitempty" json:"trade_limit,omitempty"`
	OnlyPerPair           bool   `yaml:"only_per_pair,omitempty" json:"only_per_pair,omitempty"`
}

// StopDuration converts the stop duration to wall time.
func (g GuardSpec) StopDuration(timeframe time.Duration) time.Duration {
	return time.Duration(g.StopDurationCandles) * timeframe
}

// Lookback converts the lookback window to wall time.
func (g GuardSpec) Lookback(timeframe time.Duration) time.Duration {
	return time.Duration(g.LookbackPeriodCandles) * timeframe
}

// Protections lists the guards for cfg: always a cooldown, plus the
// stoploss guard when use_stop_protection is on.
func Protections(cfg config.StrategyConfig) []GuardSpec {
	prot := []GuardSpec{{
		Method:              MethodCooldownPeriod,
		StopDurationCandles: CooldownCandles,
	}}
	if cfg.UseStopProtection {
		prot = append(prot, GuardSpec{
			Method:                MethodStoplossGuard,
			LookbackPeriodCandles: StoplossLookback,
			TradeLimit:            StoplossTradeLimit,
			StopDurationCandles:   StoplossStopDuration,
			OnlyPerPair:           true,
		})
	}
	return prot
}
