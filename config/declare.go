package config

import (
	"github.com/evdnx/solid/params"
	"go.uber.org/multierr"
)

// Parameter names.
const (
	ParamBuyRSI            = "buy_rsi"
	ParamSellRSI           = "sell_rsi"
	ParamBuyEMAShort       = "buy_ema_short"
	ParamBuyEMALong        = "buy_ema_long"
	ParamSellEMAShort      = "sell_ema_short"
	ParamSellEMALong       = "sell_ema_long"
	ParamMaxEPA            = "max_epa"
	ParamUseStopProtection = "use_stop_protection"
	ParamTrailingStop      = "trailing_stop"
	ParamMaxTradeDuration  = "max_trade_duration"
	ParamProfitTaking      = "profit_taking"
)

// Declare returns a fresh Set holding every tunable parameter with its
// default. profit_taking is declared but not optimizable.
func Declare() *params.Set {
	s, err := params.NewSet(
		params.Int(ParamBuyRSI, 20, 50, 30, params.SpaceBuy, true),
		params.Int(ParamSellRSI, 50, 80, 70, params.SpaceSell, true),
		params.Int(ParamBuyEMAShort, 5, 20, 10, params.SpaceBuy, true),
		params.Int(ParamBuyEMALong, 20, 50, 30, params.SpaceBuy, true),
		params.Int(ParamSellEMAShort, 5, 20, 10, params.SpaceSell, true),
		params.Int(ParamSellEMALong, 20, 50, 30, params.SpaceSell, true),
		params.Categorical(ParamMaxEPA, []interface{}{0, 1, 3, 5, 10}, 1, params.SpaceProtection, true),
		params.Bool(ParamUseStopProtection, true, params.SpaceProtection, true),
		params.Decimal(ParamTrailingStop, 0.02, 0.10, 2, 0.05, params.SpaceSell, true),
		params.Int(ParamMaxTradeDuration, 30, 240, 120, params.SpaceProtection, true),
		params.Decimal(ParamProfitTaking, 0.01, 0.50, 2, 0.05, params.SpaceSell, false),
	)
	if err != nil {
		// The declaration above is static; failing here is a programming error.
		panic(err)
	}
	return s
}

// FromParams snapshots s into a StrategyConfig. Fixed settings come from
// Default; the result is validated.
func FromParams(s *params.Set) (StrategyConfig, error) {
	if err := s.Validate(); err != nil {
		return StrategyConfig{}, err
	}
	cfg := Default()

	var err error
	intp := func(name string, dst *int) {
		v, e := s.Int(name)
		err = multierr.Append(err, e)
		*dst = v
	}
	floatp := func(name string, dst *float64) {
		v, e := s.Float(name)
		err = multierr.Append(err, e)
		*dst = v
	}
	intp(ParamBuyRSI, &cfg.BuyRSI)
	intp(ParamSellRSI, &cfg.SellRSI)
	intp(ParamBuyEMAShort, &cfg.BuyEMAShort)
	intp(ParamBuyEMALong, &cfg.BuyEMALong)
	intp(ParamSellEMAShort, &cfg.SellEMAShort)
	intp(ParamSellEMALong, &cfg.SellEMALong)
	intp(ParamMaxEPA, &cfg.MaxEntryPositionAdjustment)
	intp(ParamMaxTradeDuration, &cfg.MaxTradeDuration)
	floatp(ParamTrailingStop, &cfg.TrailingStop)
	floatp(ParamProfitTaking, &cfg.ProfitTaking)
	useStop, e := s.Bool(ParamUseStopProtection)
	err = multierr.Append(err, e)
	cfg.UseStopProtection = useStop
	if err != nil {
		return StrategyConfig{}, err
	}

	if err := cfg.Validate(); err != nil {
		return StrategyConfig{}, err
	}
	return cfg, nil
}
