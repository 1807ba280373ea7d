package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/database"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

const errScanGameLog = "failed to scan game log: %w"

const gameLogColumns = `id, player_name, player_team, opponent, game_date, home, minutes, points,
	       rebounds, assists, steals, blocks, threes, turnovers, team_score, opponent_score,
	       final, created_at`

// PostgresGameLogRepository implements GameLogRepository for PostgreSQL
type PostgresGameLogRepository struct {
	db *database.DB
}

// NewPostgresGameLogRepository creates a new game log repository
func NewPostgresGameLogRepository(db *database.DB) GameLogRepository {
	return &PostgresGameLogRepository{db: db}
}

// Upsert inserts a game log, replacing the stored box score when the
// same player-game arrives again (late stat corrections).
func (r *PostgresGameLogRepository) Upsert(ctx context.Context, log *models.GameLog) error {
	query := `
		INSERT INTO game_logs (player_name, player_team, opponent, game_date, home, minutes,
		                       points, rebounds, assists, steals, blocks, threes, turnovers,
		                       team_score, opponent_score, final)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (player_name, player_team, game_date)
		DO UPDATE SET opponent = EXCLUDED.opponent, home = EXCLUDED.home,
		              minutes = EXCLUDED.minutes, points = EXCLUDED.points,
		              rebounds = EXCLUDED.rebounds, assists = EXCLUDED.assists,
		              steals = EXCLUDED.steals, blocks = EXCLUDED.blocks,
		              threes = EXCLUDED.threes, turnovers = EXCLUDED.turnovers,
		              team_score = EXCLUDED.team_score, opponent_score = EXCLUDED.opponent_score,
		              final = EXCLUDED.final
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		log.PlayerName, log.PlayerTeam, log.Opponent, log.GameDate, log.Home, log.Minutes,
		log.Points, log.Rebounds, log.Assists, log.Steals, log.Blocks, log.Threes, log.Turnovers,
		log.TeamScore, log.OpponentScore, log.Final,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert game log: %w", err)
	}

	return nil
}

// UpsertBatch upserts a batch of game logs, returning the stored count
func (r *PostgresGameLogRepository) UpsertBatch(ctx context.Context, logs []*models.GameLog) (int, error) {
	stored := 0
	for _, log := range logs {
		if err := r.Upsert(ctx, log); err != nil {
			return stored, err
		}
		stored++
	}
	return stored, nil
}

// GetByPlayer retrieves a player's most recent game logs, newest first
func (r *PostgresGameLogRepository) GetByPlayer(ctx context.Context, playerName string, limit int) ([]*models.GameLog, error) {
	query := `
		SELECT ` + gameLogColumns + `
		FROM game_logs
		WHERE player_name = $1
		ORDER BY game_date DESC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, playerName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game logs by player: %w", err)
	}
	defer rows.Close()

	return scanGameLogs(rows)
}

// GetByPlayerVsOpponent retrieves a player's games against one opponent, newest first
func (r *PostgresGameLogRepository) GetByPlayerVsOpponent(ctx context.Context, playerName, opponent string, limit int) ([]*models.GameLog, error) {
	query := `
		SELECT ` + gameLogColumns + `
		FROM game_logs
		WHERE player_name = $1 AND opponent = $2
		ORDER BY game_date DESC
		LIMIT $3
	`

	rows, err := r.db.GetPool().Query(ctx, query, playerName, opponent, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game logs by opponent: %w", err)
	}
	defer rows.Close()

	return scanGameLogs(rows)
}

// GetByDateWindow retrieves player rows inside [start, end)
func (r *PostgresGameLogRepository) GetByDateWindow(ctx context.Context, start, end time.Time) ([]*models.GameLog, error) {
	query := `
		SELECT ` + gameLogColumns + `
		FROM game_logs
		WHERE player_name <> '' AND game_date >= $1 AND game_date < $2
		ORDER BY game_date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query game logs by window: %w", err)
	}
	defer rows.Close()

	return scanGameLogs(rows)
}

// GetTeamRows retrieves team-level score rows inside [start, end)
func (r *PostgresGameLogRepository) GetTeamRows(ctx context.Context, start, end time.Time) ([]*models.GameLog, error) {
	query := `
		SELECT ` + gameLogColumns + `
		FROM game_logs
		WHERE player_name = '' AND game_date >= $1 AND game_date < $2
		ORDER BY game_date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query team rows: %w", err)
	}
	defer rows.Close()

	return scanGameLogs(rows)
}

func scanGameLogs(rows pgx.Rows) ([]*models.GameLog, error) {
	var logs []*models.GameLog
	for rows.Next() {
		log := &models.GameLog{}
		err := rows.Scan(
			&log.ID, &log.PlayerName, &log.PlayerTeam, &log.Opponent, &log.GameDate, &log.Home,
			&log.Minutes, &log.Points, &log.Rebounds, &log.Assists, &log.Steals, &log.Blocks,
			&log.Threes, &log.Turnovers, &log.TeamScore, &log.OpponentScore, &log.Final,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanGameLog, err)
		}
		logs = append(logs, log)
	}

	return logs, rows.Err()
}
