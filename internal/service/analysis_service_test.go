package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/config"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/engine"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

var analysisDate = time.Date(2025, 1, 21, 0, 0, 0, 0, time.UTC)

func serviceTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func analysisConfig() config.AnalysisConfig {
	return config.AnalysisConfig{Sport: "nba", HistoryGames: 20}
}

func slateLine(player, stat string) *models.PropLine {
	return &models.PropLine{
		ID:         uuid.New(),
		Source:     "underdog",
		PlayerName: player,
		TeamName:   "Boston Celtics",
		Opponent:   "Miami Heat",
		Home:       true,
		Sport:      "nba",
		StatType:   stat,
		Side:       models.SideOver,
		Line:       19.5,
		Odds:       -110,
		GameDate:   analysisDate,
	}
}

func storedHistory(player string, points []int) []*models.GameLog {
	logs := make([]*models.GameLog, len(points))
	base := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	for i, pts := range points {
		logs[i] = &models.GameLog{
			PlayerName: player,
			PlayerTeam: "Boston Celtics",
			Opponent:   "Miami Heat",
			GameDate:   base.AddDate(0, 0, -2*i),
			Home:       true,
			Minutes:    32,
			Points:     pts,
			Rebounds:   8,
			Assists:    5,
			Final:      true,
		}
	}
	return logs
}

func scenarioPoints() []int {
	return []int{20, 22, 19, 25, 21, 23, 24, 18, 20, 22}
}

type analysisHarness struct {
	svc         *AnalysisService
	lineFeed    *MockLineFeed
	historyFeed *MockHistoryFeed
	defenseFeed *MockDefenseFeed
	lineRepo    *MockPropLineRepository
	logRepo     *MockGameLogRepository
	defenseRepo *MockDefenseRankRepository
	assessRepo  *MockAssessmentRepository
	saved       []*models.EdgeAssessment
}

func newAnalysisHarness() *analysisHarness {
	h := &analysisHarness{
		lineFeed:    new(MockLineFeed),
		historyFeed: new(MockHistoryFeed),
		defenseFeed: new(MockDefenseFeed),
		lineRepo:    new(MockPropLineRepository),
		logRepo:     new(MockGameLogRepository),
		defenseRepo: new(MockDefenseRankRepository),
		assessRepo:  new(MockAssessmentRepository),
	}
	logger := serviceTestLogger()
	h.svc = NewAnalysisService(
		h.lineFeed, h.historyFeed, h.defenseFeed,
		h.lineRepo, h.logRepo, h.defenseRepo, h.assessRepo,
		engine.New(logger), analysisConfig(), logger,
	)
	h.assessRepo.On("Upsert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			h.saved = append(h.saved, args.Get(1).(*models.EdgeAssessment))
		}).
		Return(nil)
	return h
}

func TestAnalyzeProcessesSlate(t *testing.T) {
	h := newAnalysisHarness()
	lines := []*models.PropLine{
		slateLine("Jayson Tatum", models.StatPoints),
		slateLine("Austin Reaves", "fantasy_points"),
	}

	h.lineRepo.On("GetByDate", mock.Anything, "nba", analysisDate).Return(lines, nil)
	h.defenseRepo.On("GetAll", mock.Anything).Return([]*models.DefenseRank{}, nil)
	h.logRepo.On("GetByPlayer", mock.Anything, "Jayson Tatum", 20).
		Return(storedHistory("Jayson Tatum", scenarioPoints()), nil)
	h.logRepo.On("GetByPlayer", mock.Anything, "Austin Reaves", 20).
		Return([]*models.GameLog{}, nil)

	report, err := h.svc.Analyze(context.Background(), analysisDate, AnalysisParams{})
	require.NoError(t, err)
	require.Equal(t, 2, report.Total)
	require.Equal(t, 1, report.Processed)
	require.Equal(t, 1, report.Skipped)
	require.Equal(t, 1, report.SkipCounts[models.SkipUnknownProp])

	require.Len(t, h.saved, 2)
	scored := h.saved[0]
	require.Equal(t, models.TierLean, scored.Tier)
	require.Equal(t, models.SideOver, scored.Side)
	require.InDelta(t, 1.8, scored.Edge, 1e-9)
	require.Equal(t, engine.DefaultEngineName, scored.Engine)
	require.Empty(t, scored.SkipReason)

	marker := h.saved[1]
	require.Equal(t, models.TierNoBet, marker.Tier)
	require.Equal(t, models.SkipUnknownProp, marker.SkipReason)
	require.Equal(t, "Austin Reaves", marker.PlayerName)
}

func TestAnalyzeInsufficientHistorySkip(t *testing.T) {
	h := newAnalysisHarness()
	lines := []*models.PropLine{slateLine("Jayson Tatum", models.StatPoints)}

	h.lineRepo.On("GetByDate", mock.Anything, "nba", analysisDate).Return(lines, nil)
	h.defenseRepo.On("GetAll", mock.Anything).Return([]*models.DefenseRank{}, nil)
	h.logRepo.On("GetByPlayer", mock.Anything, "Jayson Tatum", 20).
		Return(storedHistory("Jayson Tatum", []int{20, 22}), nil)

	report, err := h.svc.Analyze(context.Background(), analysisDate, AnalysisParams{})
	require.NoError(t, err)
	require.Equal(t, 1, report.Skipped)
	require.Equal(t, 1, report.SkipCounts[models.SkipInsufficientHistory])

	require.Len(t, h.saved, 1)
	require.Equal(t, models.TierNoBet, h.saved[0].Tier)
	require.Equal(t, models.SkipInsufficientHistory, h.saved[0].SkipReason)
}

func TestAnalyzeDefenseAliasLookup(t *testing.T) {
	h := newAnalysisHarness()
	lines := []*models.PropLine{slateLine("Jayson Tatum", models.StatPoints)}
	ranks := []*models.DefenseRank{{Team: "MIA", StatType: models.StatPoints, Rank: 28}}

	h.lineRepo.On("GetByDate", mock.Anything, "nba", analysisDate).Return(lines, nil)
	h.defenseRepo.On("GetAll", mock.Anything).Return(ranks, nil)
	h.logRepo.On("GetByPlayer", mock.Anything, "Jayson Tatum", 20).
		Return(storedHistory("Jayson Tatum", scenarioPoints()), nil)

	report, err := h.svc.Analyze(context.Background(), analysisDate, AnalysisParams{})
	require.NoError(t, err)
	require.Equal(t, 1, report.Processed)

	require.Len(t, h.saved, 1)
	require.Equal(t, 28, h.saved[0].DefenseRank, "a rank stored by abbreviation must resolve for the full opponent name")
}

func TestAnalyzeScalarParams(t *testing.T) {
	baseline := newAnalysisHarness()
	lines := []*models.PropLine{slateLine("Jayson Tatum", models.StatPoints)}
	history := storedHistory("Jayson Tatum", scenarioPoints())

	baseline.lineRepo.On("GetByDate", mock.Anything, "nba", analysisDate).Return(lines, nil)
	baseline.defenseRepo.On("GetAll", mock.Anything).Return([]*models.DefenseRank{}, nil)
	baseline.logRepo.On("GetByPlayer", mock.Anything, "Jayson Tatum", 20).Return(history, nil)
	_, err := baseline.svc.Analyze(context.Background(), analysisDate, AnalysisParams{})
	require.NoError(t, err)
	require.Len(t, baseline.saved, 1)

	adjusted := newAnalysisHarness()
	adjusted.lineRepo.On("GetByDate", mock.Anything, "nba", analysisDate).Return(lines, nil)
	adjusted.defenseRepo.On("GetAll", mock.Anything).Return([]*models.DefenseRank{}, nil)
	adjusted.logRepo.On("GetByPlayer", mock.Anything, "Jayson Tatum", 20).Return(history, nil)
	params := AnalysisParams{
		Spreads:           map[string]float64{"Boston Celtics": -12},
		TeammateOut:       []string{"Jayson Tatum"},
		MinutesRestricted: []string{"jayson tatum"},
	}
	_, err = adjusted.svc.Analyze(context.Background(), analysisDate, params)
	require.NoError(t, err)
	require.Len(t, adjusted.saved, 1)

	delta := adjusted.saved[0].AdjustedMedian - baseline.saved[0].AdjustedMedian
	require.InDelta(t, -1.5, delta, 1e-9, "blowout -1.0, teammate out +1.0, restriction -1.5")
}

func TestAnalyzeAutoRefreshesSnapshot(t *testing.T) {
	h := newAnalysisHarness()
	line := *slateLine("Jayson Tatum", models.StatPoints)
	ranks := []models.DefenseRank{{Team: "Miami Heat", StatType: models.StatPoints, Rank: 15}}
	history := storedHistory("Jayson Tatum", scenarioPoints())
	feedLogs := make([]models.GameLog, len(history))
	for i, l := range history {
		feedLogs[i] = *l
	}

	h.lineFeed.On("FetchLines", mock.Anything, "nba", analysisDate).Return([]models.PropLine{line}, nil)
	h.lineRepo.On("UpsertBatch", mock.Anything, mock.Anything).Return(1, nil)
	h.defenseFeed.On("FetchRanks", mock.Anything, "nba").Return(ranks, nil)
	h.defenseRepo.On("UpsertBatch", mock.Anything, mock.Anything).Return(1, nil)
	h.historyFeed.On("FetchPlayerLogs", mock.Anything, "Jayson Tatum", 20).Return(feedLogs, nil)
	h.logRepo.On("UpsertBatch", mock.Anything, mock.Anything).Return(len(feedLogs), nil)
	h.defenseRepo.On("GetAll", mock.Anything).Return([]*models.DefenseRank{}, nil)
	h.logRepo.On("GetByPlayer", mock.Anything, "Jayson Tatum", 20).Return(history, nil)

	report, err := h.svc.AnalyzeAuto(context.Background(), analysisDate, AnalysisParams{})
	require.NoError(t, err)
	require.Equal(t, 1, report.Processed)
	h.lineRepo.AssertCalled(t, "UpsertBatch", mock.Anything, mock.Anything)
	h.defenseRepo.AssertCalled(t, "UpsertBatch", mock.Anything, mock.Anything)
	h.logRepo.AssertCalled(t, "UpsertBatch", mock.Anything, mock.Anything)
}

func TestAnalyzeAutoAbortsOnFeedFailure(t *testing.T) {
	h := newAnalysisHarness()
	cause := models.NewUpstreamFetchError("lines", errors.New("connect refused"))
	h.lineFeed.On("FetchLines", mock.Anything, "nba", analysisDate).Return(nil, cause)

	_, err := h.svc.AnalyzeAuto(context.Background(), analysisDate, AnalysisParams{})
	require.Error(t, err)

	var fetchErr *models.UpstreamFetchError
	require.ErrorAs(t, err, &fetchErr)
	h.assessRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}
