package main

import (
	"fmt"

	"github.com/evdnx/solid/config"
	"github.com/evdnx/solid/logger"
	"github.com/evdnx/solid/params"
	"github.com/spf13/cobra"
)

// app is the state shared by the subcommands once the root has loaded
// configuration.
type app struct {
	configPath string
	paramsPath string

	cfg *config.AppConfig
	log logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "solid",
		Short:         "Rule-based RSI and trend strategy toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./solid.yaml when present)")
	root.PersistentFlags().StringVar(&a.paramsPath, "params", "", "parameter overlay file, overrides strategy.params_file")

	root.AddCommand(newParamsCmd(a), newProtectionsCmd(a), newReplayCmd(a))
	return root
}

func (a *app) load() error {
	cfg, err := config.LoadApp(a.configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

// paramSet returns the declared parameters with the overlay file applied.
func (a *app) paramSet() (*params.Set, error) {
	set := config.Declare()
	path := a.paramsPath
	if path == "" {
		path = a.cfg.Strategy.ParamsFile
	}
	if path == "" {
		return set, nil
	}
	if err := set.LoadOverlay(path); err != nil {
		return nil, err
	}
	a.log.Info("params_loaded", logger.String("path", path))
	return set, nil
}

// strategyConfig resolves the strategy configuration from the parameter
// set and the process settings.
func (a *app) strategyConfig() (config.StrategyConfig, error) {
	set, err := a.paramSet()
	if err != nil {
		return config.StrategyConfig{}, err
	}
	cfg, err := config.FromParams(set)
	if err != nil {
		return config.StrategyConfig{}, err
	}
	cfg.ROIClock = config.ROIClock(a.cfg.Strategy.ROIClock)
	if err := cfg.Validate(); err != nil {
		return config.StrategyConfig{}, fmt.Errorf("strategy config: %w", err)
	}
	return cfg, nil
}
