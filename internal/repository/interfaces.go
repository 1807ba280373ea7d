package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

// PropLineRepository defines the interface for prop line data access
type PropLineRepository interface {
	Upsert(ctx context.Context, line *models.PropLine) error
	UpsertBatch(ctx context.Context, lines []*models.PropLine) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.PropLine, error)
	GetByDate(ctx context.Context, sport string, gameDate time.Time) ([]*models.PropLine, error)
	GetActiveByDate(ctx context.Context, sport string, gameDate time.Time, now time.Time) ([]*models.PropLine, error)
}

// GameLogRepository defines the interface for game log data access
type GameLogRepository interface {
	Upsert(ctx context.Context, log *models.GameLog) error
	UpsertBatch(ctx context.Context, logs []*models.GameLog) (int, error)
	GetByPlayer(ctx context.Context, playerName string, limit int) ([]*models.GameLog, error)
	GetByPlayerVsOpponent(ctx context.Context, playerName, opponent string, limit int) ([]*models.GameLog, error)
	GetByDateWindow(ctx context.Context, start, end time.Time) ([]*models.GameLog, error)
	GetTeamRows(ctx context.Context, start, end time.Time) ([]*models.GameLog, error)
}

// DefenseRankRepository defines the interface for defensive rank data access
type DefenseRankRepository interface {
	Upsert(ctx context.Context, rank *models.DefenseRank) error
	UpsertBatch(ctx context.Context, ranks []*models.DefenseRank) (int, error)
	GetAll(ctx context.Context) ([]*models.DefenseRank, error)
	GetByTeamStat(ctx context.Context, team, statType string) (*models.DefenseRank, error)
}

// AssessmentRepository defines the interface for edge assessment data access
type AssessmentRepository interface {
	Upsert(ctx context.Context, assessment *models.EdgeAssessment) error
	GetByDate(ctx context.Context, gameDate time.Time) ([]*models.EdgeAssessment, error)
	GetPlayableByDate(ctx context.Context, gameDate time.Time) ([]*models.EdgeAssessment, error)
}

// WagerRepository defines the interface for wager data access
type WagerRepository interface {
	Create(ctx context.Context, wager *models.Wager) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Wager, error)
	GetByTargetDate(ctx context.Context, targetDate time.Time) ([]*models.Wager, error)
	GetPendingSince(ctx context.Context, since time.Time) ([]*models.Wager, error)
	GetSettledSince(ctx context.Context, since time.Time) ([]*models.Wager, error)
	SetOutcome(ctx context.Context, id uuid.UUID, status models.WagerStatus, outcomes []models.LegOutcome, settledAt *time.Time) error
}

// CalibrationRepository defines the interface for calibration metric data access
type CalibrationRepository interface {
	Upsert(ctx context.Context, metric *models.CalibrationMetric) error
	GetAll(ctx context.Context) ([]*models.CalibrationMetric, error)
	GetByDimension(ctx context.Context, dimension string) ([]*models.CalibrationMetric, error)
}
