package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

func healthTestServer(db DatabasePinger) *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewServer(Config{
		ServiceName: "propsd",
		Version:     "test",
		Port:        8091,
		Logger:      logger,
		DB:          db,
	})
}

func TestHealthEndpointAlwaysOK(t *testing.T) {
	s := healthTestServer(nil)

	w := httptest.NewRecorder()
	s.handleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "ok", body.Status)
	require.Equal(t, "propsd", body.Service)
	require.Equal(t, "test", body.Version)
}

func TestReadyBeforeStartupIsUnavailable(t *testing.T) {
	s := healthTestServer(stubPinger{})

	w := httptest.NewRecorder()
	s.handleReady(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body ReadyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "not_ready", body.Status)
	require.Equal(t, "not_ready", body.Checks["service"])
	require.Equal(t, "ok", body.Checks["database"])
}

func TestReadyAfterStartup(t *testing.T) {
	s := healthTestServer(stubPinger{})
	s.SetReady(true)

	w := httptest.NewRecorder()
	s.handleReady(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusOK, w.Code)
}

func TestReadyReportsDatabaseFailure(t *testing.T) {
	s := healthTestServer(stubPinger{err: errors.New("connection refused")})
	s.SetReady(true)

	w := httptest.NewRecorder()
	s.handleReady(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body ReadyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body.Checks["database"], "connection refused")
}
