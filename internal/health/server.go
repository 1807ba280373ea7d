// Package health serves the liveness and readiness probes on a port of
// their own, so orchestrators can check the process without touching
// the invocation API.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DatabasePinger checks database connectivity for the readiness probe.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the JSON body for the liveness endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
}

// ReadyResponse is the JSON body for the readiness endpoint.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// Config holds the health server settings.
type Config struct {
	ServiceName string
	Version     string
	Commit      string
	Port        int
	Logger      *logrus.Logger
	DB          DatabasePinger
}

// Server answers health and readiness probes. Readiness starts false
// and flips once the process finishes wiring its dependencies.
type Server struct {
	cfg    Config
	server *http.Server
	mu     sync.RWMutex
	ready  bool
}

func NewServer(cfg Config) *Server {
	return &Server{cfg: cfg}
}

// SetReady marks the process ready (or not) for traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady reports the current readiness flag.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Start serves the probes in the background until the context ends.
func (s *Server) Start(ctx context.Context) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/live", s.handleLive)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.cfg.Logger.WithFields(logrus.Fields{
			"port":    s.cfg.Port,
			"service": s.cfg.ServiceName,
		}).Info("Health server starting")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.cfg.Logger.WithError(err).Error("Health server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()
}

// Shutdown stops the probe server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}
	s.cfg.Logger.Info("Health server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   s.cfg.ServiceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.cfg.Version,
		Commit:    s.cfg.Commit,
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: s.cfg.ServiceName,
	})
}

// handleReady verifies the readiness flag and database connectivity.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := make(map[string]string)
	healthy := true

	if s.IsReady() {
		checks["service"] = "ok"
	} else {
		healthy = false
		checks["service"] = "not_ready"
	}

	if s.cfg.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := s.cfg.DB.Ping(ctx); err != nil {
			healthy = false
			checks["database"] = fmt.Sprintf("error: %v", err)
		} else {
			checks["database"] = "ok"
		}
	}

	response := ReadyResponse{
		Service:  s.cfg.ServiceName,
		Checks:   checks,
		Duration: time.Since(start).String(),
	}
	if healthy {
		response.Status = "ok"
		writeJSON(w, http.StatusOK, response)
		return
	}
	response.Status = "not_ready"
	writeJSON(w, http.StatusServiceUnavailable, response)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
