package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/database"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

const errScanPropLine = "failed to scan prop line: %w"

const propLineColumns = `id, source, player_name, team_name, opponent, home, sport, stat_type, side, line, odds,
	       event_id, commence_time, game_date, created_at`

// PostgresPropLineRepository implements PropLineRepository for PostgreSQL
type PostgresPropLineRepository struct {
	db *database.DB
}

// NewPostgresPropLineRepository creates a new prop line repository
func NewPostgresPropLineRepository(db *database.DB) PropLineRepository {
	return &PostgresPropLineRepository{db: db}
}

// Upsert inserts a prop line, keeping the stored odds fresh when the same
// line arrives again from the same book.
func (r *PostgresPropLineRepository) Upsert(ctx context.Context, line *models.PropLine) error {
	query := `
		INSERT INTO prop_lines (id, source, player_name, team_name, opponent, home, sport, stat_type,
		                        side, line, odds, event_id, commence_time, game_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (source, player_name, stat_type, side, line, game_date)
		DO UPDATE SET odds = EXCLUDED.odds, event_id = EXCLUDED.event_id,
		              commence_time = EXCLUDED.commence_time, team_name = EXCLUDED.team_name,
		              opponent = EXCLUDED.opponent, home = EXCLUDED.home
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		line.ID, line.Source, line.PlayerName, line.TeamName, line.Opponent, line.Home,
		line.Sport, line.StatType, line.Side, line.Line, line.Odds, line.EventID,
		line.CommenceTime, line.GameDate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert prop line: %w", err)
	}

	return nil
}

// UpsertBatch upserts a batch of prop lines, returning the stored count
func (r *PostgresPropLineRepository) UpsertBatch(ctx context.Context, lines []*models.PropLine) (int, error) {
	stored := 0
	for _, line := range lines {
		if err := r.Upsert(ctx, line); err != nil {
			return stored, err
		}
		stored++
	}
	return stored, nil
}

// GetByID retrieves a prop line by ID
func (r *PostgresPropLineRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PropLine, error) {
	query := `SELECT ` + propLineColumns + ` FROM prop_lines WHERE id = $1`

	line := &models.PropLine{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&line.ID, &line.Source, &line.PlayerName, &line.TeamName, &line.Opponent, &line.Home,
		&line.Sport, &line.StatType, &line.Side, &line.Line, &line.Odds, &line.EventID,
		&line.CommenceTime, &line.GameDate, &line.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prop line: %w", err)
	}

	return line, nil
}

// GetByDate retrieves all lines for a sport and game date
func (r *PostgresPropLineRepository) GetByDate(ctx context.Context, sport string, gameDate time.Time) ([]*models.PropLine, error) {
	query := `
		SELECT ` + propLineColumns + `
		FROM prop_lines
		WHERE sport = $1 AND game_date = $2
		ORDER BY player_name, stat_type, side
	`

	rows, err := r.db.GetPool().Query(ctx, query, sport, gameDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query prop lines: %w", err)
	}
	defer rows.Close()

	return scanPropLines(rows)
}

// GetActiveByDate retrieves lines whose game has not started yet
func (r *PostgresPropLineRepository) GetActiveByDate(ctx context.Context, sport string, gameDate time.Time, now time.Time) ([]*models.PropLine, error) {
	query := `
		SELECT ` + propLineColumns + `
		FROM prop_lines
		WHERE sport = $1 AND game_date = $2
		  AND (commence_time IS NULL OR commence_time > $3)
		ORDER BY player_name, stat_type, side
	`

	rows, err := r.db.GetPool().Query(ctx, query, sport, gameDate, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query active prop lines: %w", err)
	}
	defer rows.Close()

	return scanPropLines(rows)
}

func scanPropLines(rows pgx.Rows) ([]*models.PropLine, error) {
	var lines []*models.PropLine
	for rows.Next() {
		line := &models.PropLine{}
		err := rows.Scan(
			&line.ID, &line.Source, &line.PlayerName, &line.TeamName, &line.Opponent, &line.Home,
			&line.Sport, &line.StatType, &line.Side, &line.Line, &line.Odds, &line.EventID,
			&line.CommenceTime, &line.GameDate, &line.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanPropLine, err)
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}
