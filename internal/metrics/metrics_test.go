package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

func TestObserveRun(t *testing.T) {
	report := models.NewRunReport("analyze")
	report.RecordProcessed("Jayson Tatum points OVER 19.5")
	report.RecordSkipped("Austin Reaves fantasy_points OVER 34.5", "unknown_prop")
	report.Finish()

	assert.NotPanics(t, func() {
		ObserveRun("analyze", report, nil)
	})
}

func TestObserveRunFailureWithoutReport(t *testing.T) {
	assert.NotPanics(t, func() {
		ObserveRun("settle", nil, assert.AnError)
	})
}

func TestObserveWagers(t *testing.T) {
	wagers := []*models.Wager{
		{Tier: models.RiskBalanced, Engine: "control", TargetDate: time.Now()},
		{Tier: models.RiskValue, Engine: "aggressive", TargetDate: time.Now()},
	}

	assert.NotPanics(t, func() {
		ObserveWagers(wagers)
	})
}

func TestHandlerServesDomainAndFeedMetrics(t *testing.T) {
	ObserveRun("analyze", models.NewRunReport("analyze"), nil)

	recorder := httptest.NewRecorder()
	Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "parlay_sim_runs_total")
}
