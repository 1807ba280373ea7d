// Package metrics exposes Prometheus instrumentation for the analysis,
// parlay and settlement runs. Collectors live on the default registry so
// the feed client metrics share the same scrape endpoint.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/config"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

const namespace = "parlay_sim"

var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Total batch runs by action and outcome",
	}, []string{"action", "outcome"})

	RunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of batch runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	}, []string{"action"})

	ItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "run_items_total",
		Help:      "Items handled across batch runs by status",
	}, []string{"action", "status"})

	SkipsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "run_skips_total",
		Help:      "Skipped items across batch runs by reason",
	}, []string{"action", "reason"})

	WagersBuiltTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wagers_built_total",
		Help:      "Assembled wagers by risk tier and engine variant",
	}, []string{"tier", "engine"})
)

// ObserveRun folds one finished run into the counters. A nil report
// still counts the outcome.
func ObserveRun(action string, report *models.RunReport, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	RunsTotal.WithLabelValues(action, outcome).Inc()

	if report == nil {
		return
	}
	RunDuration.WithLabelValues(action).Observe(report.Duration.Seconds())
	ItemsTotal.WithLabelValues(action, string(models.ItemProcessed)).Add(float64(report.Processed))
	ItemsTotal.WithLabelValues(action, string(models.ItemSkipped)).Add(float64(report.Skipped))
	ItemsTotal.WithLabelValues(action, string(models.ItemFailed)).Add(float64(report.Failed))
	for reason, count := range report.SkipCounts {
		SkipsTotal.WithLabelValues(action, reason).Add(float64(count))
	}
}

// ObserveWagers counts freshly assembled wagers.
func ObserveWagers(wagers []*models.Wager) {
	for _, wager := range wagers {
		WagersBuiltTotal.WithLabelValues(string(wager.Tier), wager.Engine).Inc()
	}
}

// Handler returns the scrape handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Server serves the scrape endpoint on its own port.
type Server struct {
	cfg        config.MetricsConfig
	logger     *logrus.Logger
	httpServer *http.Server
}

func NewServer(cfg config.MetricsConfig, logger *logrus.Logger) *Server {
	return &Server{cfg: cfg, logger: logger}
}

// Start runs the metrics server in the background and shuts it down
// when the context is cancelled. A disabled config is a no-op.
func (s *Server) Start(ctx context.Context) {
	if !s.cfg.Enabled {
		return
	}

	mux := http.NewServeMux()
	mux.Handle(s.cfg.Path, Handler())
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		s.logger.WithFields(logrus.Fields{
			"port": s.cfg.Port,
			"path": s.cfg.Path,
		}).Info("Metrics server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("Metrics server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()
}

// Shutdown stops the metrics server.
func (s *Server) Shutdown() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
