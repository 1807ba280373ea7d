package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/database"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

const errScanDefenseRank = "failed to scan defense rank: %w"

// PostgresDefenseRankRepository implements DefenseRankRepository for PostgreSQL
type PostgresDefenseRankRepository struct {
	db *database.DB
}

// NewPostgresDefenseRankRepository creates a new defense rank repository
func NewPostgresDefenseRankRepository(db *database.DB) DefenseRankRepository {
	return &PostgresDefenseRankRepository{db: db}
}

// Upsert stores a defensive rank, replacing the previous value for the
// same team and stat
func (r *PostgresDefenseRankRepository) Upsert(ctx context.Context, rank *models.DefenseRank) error {
	query := `
		INSERT INTO defense_ranks (team, stat_type, rank, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (team, stat_type)
		DO UPDATE SET rank = EXCLUDED.rank, updated_at = NOW()
	`

	_, err := r.db.GetPool().Exec(ctx, query, rank.Team, rank.StatType, rank.Rank)
	if err != nil {
		return fmt.Errorf("failed to upsert defense rank: %w", err)
	}

	return nil
}

// UpsertBatch upserts a batch of defensive ranks, returning the stored count
func (r *PostgresDefenseRankRepository) UpsertBatch(ctx context.Context, ranks []*models.DefenseRank) (int, error) {
	stored := 0
	for _, rank := range ranks {
		if err := r.Upsert(ctx, rank); err != nil {
			return stored, err
		}
		stored++
	}
	return stored, nil
}

// GetAll retrieves every stored defensive rank
func (r *PostgresDefenseRankRepository) GetAll(ctx context.Context) ([]*models.DefenseRank, error) {
	query := `
		SELECT team, stat_type, rank, updated_at
		FROM defense_ranks
		ORDER BY stat_type, rank
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query defense ranks: %w", err)
	}
	defer rows.Close()

	var ranks []*models.DefenseRank
	for rows.Next() {
		rank := &models.DefenseRank{}
		if err := rows.Scan(&rank.Team, &rank.StatType, &rank.Rank, &rank.UpdatedAt); err != nil {
			return nil, fmt.Errorf(errScanDefenseRank, err)
		}
		ranks = append(ranks, rank)
	}

	return ranks, rows.Err()
}

// GetByTeamStat retrieves the rank for one team against one stat
func (r *PostgresDefenseRankRepository) GetByTeamStat(ctx context.Context, team, statType string) (*models.DefenseRank, error) {
	query := `
		SELECT team, stat_type, rank, updated_at
		FROM defense_ranks
		WHERE team = $1 AND stat_type = $2
	`

	rank := &models.DefenseRank{}
	err := r.db.GetPool().QueryRow(ctx, query, team, statType).Scan(
		&rank.Team, &rank.StatType, &rank.Rank, &rank.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get defense rank: %w", err)
	}

	return rank, nil
}
