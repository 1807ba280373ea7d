package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/config"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/parlay"
)

var parlayDate = time.Date(2025, 1, 21, 0, 0, 0, 0, time.UTC)

func parlayTestConfig() config.ParlayConfig {
	return config.ParlayConfig{
		MaxLegs:        6,
		MinStatTypes:   3,
		MaxPerStatType: 2,
		SourcePriority: []string{"underdog", "prizepicks"},
		Engines: []config.EngineConfig{
			{Name: "control", EdgeScale: 1.0},
			{Name: "aggressive", EdgeScale: 1.35},
		},
	}
}

func playableAssessment(player, stat string, edge, hitRate, volatility float64, conf models.Confidence) *models.EdgeAssessment {
	return &models.EdgeAssessment{
		ID:            uuid.New(),
		PlayerName:    player,
		TeamName:      "Boston Celtics",
		Sport:         "nba",
		StatType:      stat,
		Side:          models.SideOver,
		Line:          19.5,
		Odds:          -110,
		Source:        "underdog",
		GameDate:      parlayDate,
		Edge:          edge,
		Tier:          models.TierLean,
		Confidence:    conf,
		HitRate:       hitRate,
		Volatility:    volatility,
		GamesAnalyzed: 10,
	}
}

func assessmentPool() []*models.EdgeAssessment {
	return []*models.EdgeAssessment{
		playableAssessment("Jayson Tatum", models.StatPoints, 3.0, 0.80, 0.20, models.ConfidenceElite),
		playableAssessment("Bam Adebayo", models.StatRebounds, 2.5, 0.75, 0.25, models.ConfidenceStrong),
		playableAssessment("Tyrese Haliburton", models.StatAssists, 2.0, 0.70, 0.30, models.ConfidenceStrong),
		playableAssessment("Anthony Edwards", models.StatPoints, 1.8, 0.68, 0.20, models.ConfidenceModerate),
		playableAssessment("Stephen Curry", models.StatThrees, 0.8, 0.72, 0.30, models.ConfidenceStrong),
		playableAssessment("Nikola Vucevic", models.StatRebounds, 1.5, 0.65, 0.35, models.ConfidenceModerate),
		playableAssessment("Trae Young", models.StatAssists, 1.2, 0.63, 0.38, models.ConfidenceModerate),
	}
}

type parlayHarness struct {
	svc        *ParlayService
	assessRepo *MockAssessmentRepository
	wagerRepo  *MockWagerRepository
	created    []*models.Wager
}

func newParlayHarness() *parlayHarness {
	h := &parlayHarness{
		assessRepo: new(MockAssessmentRepository),
		wagerRepo:  new(MockWagerRepository),
	}
	logger := serviceTestLogger()
	cfg := parlayTestConfig()
	h.svc = NewParlayService(h.assessRepo, h.wagerRepo, parlay.NewAssembler(cfg, logger), cfg, logger)
	h.wagerRepo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			h.created = append(h.created, args.Get(1).(*models.Wager))
		}).
		Return(nil)
	return h
}

func TestGenerateParlaysTiersAndVariants(t *testing.T) {
	h := newParlayHarness()
	h.assessRepo.On("GetPlayableByDate", mock.Anything, parlayDate).Return(assessmentPool(), nil)

	report, wagers, err := h.svc.GenerateParlays(context.Background(), parlayDate)
	require.NoError(t, err)

	// Conservative cannot field six legs from four qualifying candidates;
	// balanced and value fill for both engine variants.
	require.Equal(t, 4, report.Processed)
	require.Equal(t, 2, report.Skipped)
	require.Len(t, wagers, 4)
	require.Len(t, h.created, 4)

	require.Equal(t, models.RiskBalanced, wagers[0].Tier)
	require.Equal(t, "control", wagers[0].Engine)
	require.Equal(t, models.RiskBalanced, wagers[1].Tier)
	require.Equal(t, "aggressive", wagers[1].Engine)
	require.Equal(t, models.RiskValue, wagers[2].Tier)
	require.Equal(t, "control", wagers[2].Engine)
	require.Equal(t, models.RiskValue, wagers[3].Tier)
	require.Equal(t, "aggressive", wagers[3].Engine)

	for _, wager := range wagers {
		require.Equal(t, 6, wager.LegCount)
		require.Equal(t, parlayDate, wager.TargetDate)
		require.GreaterOrEqual(t, wager.StatTypeSpread(), 3)
	}
}

func TestGenerateParlaysBelowQuota(t *testing.T) {
	h := newParlayHarness()
	h.assessRepo.On("GetPlayableByDate", mock.Anything, parlayDate).
		Return(assessmentPool()[:5], nil)

	report, wagers, err := h.svc.GenerateParlays(context.Background(), parlayDate)
	require.NoError(t, err, "an empty slate is a run with skips, not a failure")
	require.Empty(t, wagers)
	require.Equal(t, 0, report.Processed)
	require.Equal(t, 6, report.Skipped, "every tier and variant combination skips")
	h.wagerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
