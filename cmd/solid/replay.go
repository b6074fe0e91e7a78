package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evdnx/solid/config"
	"github.com/evdnx/solid/executor"
	"github.com/evdnx/solid/feed"
	"github.com/evdnx/solid/logger"
	"github.com/evdnx/solid/metrics"
	"github.com/evdnx/solid/replay"
	"github.com/evdnx/solid/strategy"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newReplayCmd(a *app) *cobra.Command {
	var (
		dataPath   string
		pair       string
		roiClock   string
		asJSON     bool
		showTrades bool
	)
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay a candle CSV through the strategy with a paper executor",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := a.strategyConfig()
			if err != nil {
				return err
			}
			if roiClock != "" {
				cfg.ROIClock = config.ROIClock(roiClock)
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if cfg.ROIClock == config.ROIClockWall {
				a.log.Warn("roi_wall_clock",
					logger.String("hint", "ROI bands are aged by the wall clock; use --roi-clock=bar for historical data"),
				)
			}
			settings := a.cfg.Replay
			if pair != "" {
				settings.Pair = pair
			}

			if a.cfg.Metrics.Addr != "" {
				srv, err := metrics.Serve(a.cfg.Metrics.Addr, a.log)
				if err != nil {
					return err
				}
				a.log.Info("metrics_listening", logger.String("addr", srv.Addr))
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			f, err := os.Open(dataPath)
			if err != nil {
				return fmt.Errorf("open candles: %w", err)
			}
			defer f.Close()
			candles, err := feed.ReadCSV(f)
			if err != nil {
				return err
			}
			bars, err := feed.Compute(candles, feed.PeriodsFrom(cfg))
			if err != nil {
				return err
			}
			a.log.Info("candles_loaded",
				logger.String("path", dataPath),
				logger.Int("count", len(candles)),
			)

			strat, err := strategy.NewSolid(cfg, a.log)
			if err != nil {
				return err
			}
			exec := executor.NewPaperExecutor(settings.StartingEquity, a.log)
			metrics.EquityGauge.Set(settings.StartingEquity)
			engine, err := replay.NewEngine(strat, exec, settings, a.log)
			if err != nil {
				return err
			}
			summary, err := engine.Run(ctx, bars)
			if err != nil {
				return err
			}

			out := struct {
				Summary replay.Summary `json:"summary" yaml:"summary"`
				Trades  []replay.Trade `json:"trades,omitempty" yaml:"trades,omitempty"`
			}{Summary: summary}
			if showTrades {
				out.Trades = engine.Trades()
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "", "candle CSV with date,open,high,low,close,volume columns")
	cmd.Flags().StringVar(&pair, "pair", "", "pair name, overrides replay.pair")
	cmd.Flags().StringVar(&roiClock, "roi-clock", "", "ROI clock (wall or bar), overrides strategy.roi_clock")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of YAML")
	cmd.Flags().BoolVar(&showTrades, "trades", false, "include every closed trade")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}
