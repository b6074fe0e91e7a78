package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// AppConfig holds the process settings of the solid CLI.
type AppConfig struct {
	Log      LogConfig      `mapstructure:"logger"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Strategy StrategyFile   `mapstructure:"strategy"`
	Replay   ReplaySettings `mapstructure:"replay"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type MetricsConfig struct {
	// Addr is the listen address of the /metrics endpoint; empty disables it.
	Addr string `mapstructure:"addr"`
}

type StrategyFile struct {
	// ParamsFile is an optional YAML parameter overlay.
	ParamsFile string `mapstructure:"params_file"`
	ROIClock   string `mapstructure:"roi_clock"`
}

// Stake modes for the replay engine.
const (
	// StakeModeFraction commits StakeFraction of the free cash per entry.
	StakeModeFraction = "fraction"
	// StakeModeStopDistance sizes entries so that hitting the stop loss
	// costs RiskPerTrade of equity, capped at StakeFraction of the cash.
	StakeModeStopDistance = "stop_distance"
)

type ReplaySettings struct {
	Pair           string  `mapstructure:"pair"`
	StartingEquity float64 `mapstructure:"starting_equity"`
	StakeFraction  float64 `mapstructure:"stake_fraction"`
	StakeMode      string  `mapstructure:"stake_mode"`
	RiskPerTrade   float64 `mapstructure:"risk_per_trade"`
}

// LoadApp reads the CLI configuration. Values come from defaults, then the
// YAML file at path (or ./solid.yaml when path is empty and the file
// exists), then SOLID_* environment variables (SOLID_LOGGER_LEVEL, ...).
func LoadApp(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("strategy.params_file", "")
	v.SetDefault("strategy.roi_clock", string(ROIClockWall))
	v.SetDefault("replay.pair", "BTC/USDT")
	v.SetDefault("replay.starting_equity", 10_000.0)
	v.SetDefault("replay.stake_fraction", 0.1)
	v.SetDefault("replay.stake_mode", StakeModeFraction)
	v.SetDefault("replay.risk_per_trade", 0.01)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("SOLID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("solid")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the process settings.
func (c *AppConfig) Validate() error {
	switch ROIClock(c.Strategy.ROIClock) {
	case ROIClockWall, ROIClockBar:
	default:
		return fmt.Errorf("strategy.roi_clock %q must be %q or %q", c.Strategy.ROIClock, ROIClockWall, ROIClockBar)
	}
	if c.Replay.StartingEquity <= 0 {
		return fmt.Errorf("replay.starting_equity (%f) must be positive", c.Replay.StartingEquity)
	}
	if c.Replay.StakeFraction <= 0 || c.Replay.StakeFraction > 1 {
		return fmt.Errorf("replay.stake_fraction (%f) must be in (0, 1]", c.Replay.StakeFraction)
	}
	switch c.Replay.StakeMode {
	case StakeModeFraction, StakeModeStopDistance:
	default:
		return fmt.Errorf("replay.stake_mode %q must be %q or %q", c.Replay.StakeMode, StakeModeFraction, StakeModeStopDistance)
	}
	if c.Replay.StakeMode == StakeModeStopDistance && (c.Replay.RiskPerTrade <= 0 || c.Replay.RiskPerTrade > 1) {
		return fmt.Errorf("replay.risk_per_trade (%f) must be in (0, 1]", c.Replay.RiskPerTrade)
	}
	if c.Replay.Pair == "" {
		return errors.New("replay.pair cannot be empty")
	}
	return nil
}
