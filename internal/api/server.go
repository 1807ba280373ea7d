// Package api exposes the batch actions over HTTP. Every action responds
// 200 with a run report even when items were skipped; only a whole-run
// failure maps to an error status.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/config"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/service"
)

// AnalysisRunner runs edge analysis and serves stored picks.
type AnalysisRunner interface {
	Analyze(ctx context.Context, gameDate time.Time, params service.AnalysisParams) (*models.RunReport, error)
	AnalyzeAuto(ctx context.Context, gameDate time.Time, params service.AnalysisParams) (*models.RunReport, error)
	Picks(ctx context.Context, gameDate time.Time) ([]*models.EdgeAssessment, error)
}

// ParlayRunner assembles wagers and serves stored ones.
type ParlayRunner interface {
	GenerateParlays(ctx context.Context, targetDate time.Time) (*models.RunReport, []*models.Wager, error)
	Wagers(ctx context.Context, targetDate time.Time) ([]*models.Wager, error)
}

// SettlementRunner reconciles pending wagers against box scores.
type SettlementRunner interface {
	Settle(ctx context.Context, now time.Time) (*models.RunReport, error)
}

// Server is the invocation API for the analysis, parlay and settlement
// actions.
type Server struct {
	analysis   AnalysisRunner
	parlays    ParlayRunner
	settlement SettlementRunner
	cfg        config.APIConfig
	logger     *logrus.Logger
	httpServer *http.Server
}

func NewServer(
	analysis AnalysisRunner,
	parlays ParlayRunner,
	settlement SettlementRunner,
	cfg config.APIConfig,
	logger *logrus.Logger,
) *Server {
	return &Server{
		analysis:   analysis,
		parlays:    parlays,
		settlement: settlement,
		cfg:        cfg,
		logger:     logger,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.logger))

	v1 := r.Group("/v1")
	actions := v1.Group("/actions")
	actions.POST("/analyze", s.handleAnalyze)
	actions.POST("/analyze_auto", s.handleAnalyzeAuto)
	actions.POST("/generate_parlays", s.handleGenerateParlays)
	actions.POST("/get_picks", s.handleGetPicks)
	actions.POST("/settle", s.handleSettle)

	v1.GET("/picks", s.handleListPicks)
	v1.GET("/wagers", s.handleListWagers)

	return r
}

// Start runs the API server in the background and shuts it down when
// the context is cancelled.
func (s *Server) Start(ctx context.Context) {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.WithField("port", s.cfg.Port).Info("API server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("API server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown() error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("API server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("Request handled")
	}
}
