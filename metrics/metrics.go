package metrics

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/evdnx/solid/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solid_signals_total",
			Help: "Bars that produced an active signal, by side (enter/exit).",
		},
		[]string{"side"},
	)

	ExitAdvisories = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solid_exit_advisories_total",
			Help: "Exit suggestions returned by the position guard, by reason.",
		},
		[]string{"reason"},
	)

	ROIFloor = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "solid_roi_floor",
			Help:    "Profit floors returned by the ROI curve.",
			Buckets: []float64{0.02, 0.05, 0.1, 0.2, 0.5},
		},
	)

	TradesClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solid_replay_trades_closed_total",
			Help: "Trades closed by the replay engine, by exit reason.",
		},
		[]string{"reason"},
	)

	EquityGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "solid_replay_equity",
			Help: "Current equity of the replay executor.",
		},
	)
)

func init() {
	prometheus.MustRegister(SignalsTotal, ExitAdvisories, ROIFloor, TradesClosed, EquityGauge)
}

// Serve binds addr and exposes /metrics in the background. Bind failures
// are returned; later serve failures are logged.
func Serve(addr string, log logger.Logger) (*http.Server, error) {
	if log == nil {
		log = logger.NewNop()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics: listen %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: ln.Addr().String(), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics_serve_failed", logger.String("addr", srv.Addr), logger.Err(err))
		}
	}()
	return srv, nil
}
