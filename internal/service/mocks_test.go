package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

// MockLineFeed mocks the upstream line supplier
type MockLineFeed struct {
	mock.Mock
}

func (m *MockLineFeed) FetchLines(ctx context.Context, sport string, gameDate time.Time) ([]models.PropLine, error) {
	args := m.Called(ctx, sport, gameDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PropLine), args.Error(1)
}

func (m *MockLineFeed) Name() string { return "mock-lines" }

// MockHistoryFeed mocks the upstream game log supplier
type MockHistoryFeed struct {
	mock.Mock
}

func (m *MockHistoryFeed) FetchPlayerLogs(ctx context.Context, playerName string, limit int) ([]models.GameLog, error) {
	args := m.Called(ctx, playerName, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GameLog), args.Error(1)
}

func (m *MockHistoryFeed) Name() string { return "mock-history" }

// MockDefenseFeed mocks the upstream defensive rank supplier
type MockDefenseFeed struct {
	mock.Mock
}

func (m *MockDefenseFeed) FetchRanks(ctx context.Context, sport string) ([]models.DefenseRank, error) {
	args := m.Called(ctx, sport)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DefenseRank), args.Error(1)
}

func (m *MockDefenseFeed) Name() string { return "mock-defense" }

// MockScoreFeed mocks the upstream final score supplier
type MockScoreFeed struct {
	mock.Mock
}

func (m *MockScoreFeed) FetchFinals(ctx context.Context, sport string, from, to time.Time) ([]models.GameLog, error) {
	args := m.Called(ctx, sport, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GameLog), args.Error(1)
}

func (m *MockScoreFeed) Name() string { return "mock-scores" }

// MockPropLineRepository mocks prop line data access
type MockPropLineRepository struct {
	mock.Mock
}

func (m *MockPropLineRepository) Upsert(ctx context.Context, line *models.PropLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockPropLineRepository) UpsertBatch(ctx context.Context, lines []*models.PropLine) (int, error) {
	args := m.Called(ctx, lines)
	return args.Int(0), args.Error(1)
}

func (m *MockPropLineRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PropLine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PropLine), args.Error(1)
}

func (m *MockPropLineRepository) GetByDate(ctx context.Context, sport string, gameDate time.Time) ([]*models.PropLine, error) {
	args := m.Called(ctx, sport, gameDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PropLine), args.Error(1)
}

func (m *MockPropLineRepository) GetActiveByDate(ctx context.Context, sport string, gameDate time.Time, now time.Time) ([]*models.PropLine, error) {
	args := m.Called(ctx, sport, gameDate, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PropLine), args.Error(1)
}

// MockGameLogRepository mocks game log data access
type MockGameLogRepository struct {
	mock.Mock
}

func (m *MockGameLogRepository) Upsert(ctx context.Context, log *models.GameLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockGameLogRepository) UpsertBatch(ctx context.Context, logs []*models.GameLog) (int, error) {
	args := m.Called(ctx, logs)
	return args.Int(0), args.Error(1)
}

func (m *MockGameLogRepository) GetByPlayer(ctx context.Context, playerName string, limit int) ([]*models.GameLog, error) {
	args := m.Called(ctx, playerName, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GameLog), args.Error(1)
}

func (m *MockGameLogRepository) GetByPlayerVsOpponent(ctx context.Context, playerName, opponent string, limit int) ([]*models.GameLog, error) {
	args := m.Called(ctx, playerName, opponent, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GameLog), args.Error(1)
}

func (m *MockGameLogRepository) GetByDateWindow(ctx context.Context, start, end time.Time) ([]*models.GameLog, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GameLog), args.Error(1)
}

func (m *MockGameLogRepository) GetTeamRows(ctx context.Context, start, end time.Time) ([]*models.GameLog, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GameLog), args.Error(1)
}

// MockDefenseRankRepository mocks defensive rank data access
type MockDefenseRankRepository struct {
	mock.Mock
}

func (m *MockDefenseRankRepository) Upsert(ctx context.Context, rank *models.DefenseRank) error {
	args := m.Called(ctx, rank)
	return args.Error(0)
}

func (m *MockDefenseRankRepository) UpsertBatch(ctx context.Context, ranks []*models.DefenseRank) (int, error) {
	args := m.Called(ctx, ranks)
	return args.Int(0), args.Error(1)
}

func (m *MockDefenseRankRepository) GetAll(ctx context.Context) ([]*models.DefenseRank, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DefenseRank), args.Error(1)
}

func (m *MockDefenseRankRepository) GetByTeamStat(ctx context.Context, team, statType string) (*models.DefenseRank, error) {
	args := m.Called(ctx, team, statType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DefenseRank), args.Error(1)
}

// MockAssessmentRepository mocks edge assessment data access
type MockAssessmentRepository struct {
	mock.Mock
}

func (m *MockAssessmentRepository) Upsert(ctx context.Context, assessment *models.EdgeAssessment) error {
	args := m.Called(ctx, assessment)
	return args.Error(0)
}

func (m *MockAssessmentRepository) GetByDate(ctx context.Context, gameDate time.Time) ([]*models.EdgeAssessment, error) {
	args := m.Called(ctx, gameDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EdgeAssessment), args.Error(1)
}

func (m *MockAssessmentRepository) GetPlayableByDate(ctx context.Context, gameDate time.Time) ([]*models.EdgeAssessment, error) {
	args := m.Called(ctx, gameDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EdgeAssessment), args.Error(1)
}

// MockWagerRepository mocks wager data access
type MockWagerRepository struct {
	mock.Mock
}

func (m *MockWagerRepository) Create(ctx context.Context, wager *models.Wager) error {
	args := m.Called(ctx, wager)
	return args.Error(0)
}

func (m *MockWagerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Wager, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wager), args.Error(1)
}

func (m *MockWagerRepository) GetByTargetDate(ctx context.Context, targetDate time.Time) ([]*models.Wager, error) {
	args := m.Called(ctx, targetDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Wager), args.Error(1)
}

func (m *MockWagerRepository) GetPendingSince(ctx context.Context, since time.Time) ([]*models.Wager, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Wager), args.Error(1)
}

func (m *MockWagerRepository) GetSettledSince(ctx context.Context, since time.Time) ([]*models.Wager, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Wager), args.Error(1)
}

func (m *MockWagerRepository) SetOutcome(ctx context.Context, id uuid.UUID, status models.WagerStatus, outcomes []models.LegOutcome, settledAt *time.Time) error {
	args := m.Called(ctx, id, status, outcomes, settledAt)
	return args.Error(0)
}

// MockCalibrationRepository mocks calibration metric data access
type MockCalibrationRepository struct {
	mock.Mock
}

func (m *MockCalibrationRepository) Upsert(ctx context.Context, metric *models.CalibrationMetric) error {
	args := m.Called(ctx, metric)
	return args.Error(0)
}

func (m *MockCalibrationRepository) GetAll(ctx context.Context) ([]*models.CalibrationMetric, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CalibrationMetric), args.Error(1)
}

func (m *MockCalibrationRepository) GetByDimension(ctx context.Context, dimension string) ([]*models.CalibrationMetric, error) {
	args := m.Called(ctx, dimension)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CalibrationMetric), args.Error(1)
}
