package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/database"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

const errScanWager = "failed to scan wager: %w"

const wagerColumns = `id, tier, engine, legs, leg_count, total_edge, combined_hit_rate,
	       confidence_score, combined_odds, target_date, status, leg_outcomes,
	       created_at, settled_at`

// PostgresWagerRepository implements WagerRepository for PostgreSQL
type PostgresWagerRepository struct {
	db *database.DB
}

// NewPostgresWagerRepository creates a new wager repository
func NewPostgresWagerRepository(db *database.DB) WagerRepository {
	return &PostgresWagerRepository{db: db}
}

// Create inserts a new wager with its legs serialized as JSONB
func (r *PostgresWagerRepository) Create(ctx context.Context, wager *models.Wager) error {
	legsJSON, err := json.Marshal(wager.Legs)
	if err != nil {
		return fmt.Errorf("failed to marshal wager legs: %w", err)
	}

	query := `
		INSERT INTO wagers (id, tier, engine, legs, leg_count, total_edge, combined_hit_rate,
		                    confidence_score, combined_odds, target_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		wager.ID, wager.Tier, wager.Engine, legsJSON, wager.LegCount, wager.TotalEdge,
		wager.CombinedHitRate, wager.ConfidenceScore, wager.CombinedOdds, wager.TargetDate,
		wager.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create wager: %w", err)
	}

	return nil
}

// GetByID retrieves a wager by ID
func (r *PostgresWagerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Wager, error) {
	query := `SELECT ` + wagerColumns + ` FROM wagers WHERE id = $1`

	wager, err := scanWagerRow(r.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wager: %w", err)
	}

	return wager, nil
}

// GetByTargetDate retrieves all wagers assembled for one slate date
func (r *PostgresWagerRepository) GetByTargetDate(ctx context.Context, targetDate time.Time) ([]*models.Wager, error) {
	query := `
		SELECT ` + wagerColumns + `
		FROM wagers
		WHERE target_date = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, targetDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query wagers by date: %w", err)
	}
	defer rows.Close()

	return scanWagers(rows)
}

// GetPendingSince retrieves unsettled wagers targeting dates on or
// after since. Partial wagers are unsettled; they come back too.
func (r *PostgresWagerRepository) GetPendingSince(ctx context.Context, since time.Time) ([]*models.Wager, error) {
	query := `
		SELECT ` + wagerColumns + `
		FROM wagers
		WHERE status IN ('pending', 'partial') AND target_date >= $1
		ORDER BY target_date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending wagers: %w", err)
	}
	defer rows.Close()

	return scanWagers(rows)
}

// GetSettledSince retrieves wagers settled on or after since
func (r *PostgresWagerRepository) GetSettledSince(ctx context.Context, since time.Time) ([]*models.Wager, error) {
	query := `
		SELECT ` + wagerColumns + `
		FROM wagers
		WHERE status <> 'pending' AND settled_at >= $1
		ORDER BY settled_at DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query settled wagers: %w", err)
	}
	defer rows.Close()

	return scanWagers(rows)
}

// SetOutcome records the settlement result. Legs and the original
// metrics stay untouched; only status, outcomes and the settled
// timestamp change. A nil settledAt leaves the wager open for another
// settlement pass.
func (r *PostgresWagerRepository) SetOutcome(ctx context.Context, id uuid.UUID, status models.WagerStatus, outcomes []models.LegOutcome, settledAt *time.Time) error {
	outcomesJSON, err := json.Marshal(outcomes)
	if err != nil {
		return fmt.Errorf("failed to marshal leg outcomes: %w", err)
	}

	query := `
		UPDATE wagers SET status = $2, leg_outcomes = $3, settled_at = $4
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, id, status, outcomesJSON, settledAt)
	if err != nil {
		return fmt.Errorf("failed to set wager outcome: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func scanWagers(rows pgx.Rows) ([]*models.Wager, error) {
	var wagers []*models.Wager
	for rows.Next() {
		wager, err := scanWagerRow(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanWager, err)
		}
		wagers = append(wagers, wager)
	}

	return wagers, rows.Err()
}

func scanWagerRow(row pgx.Row) (*models.Wager, error) {
	wager := &models.Wager{}
	var legsJSON []byte
	var outcomesJSON []byte

	err := row.Scan(
		&wager.ID, &wager.Tier, &wager.Engine, &legsJSON, &wager.LegCount, &wager.TotalEdge,
		&wager.CombinedHitRate, &wager.ConfidenceScore, &wager.CombinedOdds, &wager.TargetDate,
		&wager.Status, &outcomesJSON, &wager.CreatedAt, &wager.SettledAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(legsJSON, &wager.Legs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wager legs: %w", err)
	}
	if len(outcomesJSON) > 0 {
		if err := json.Unmarshal(outcomesJSON, &wager.LegOutcomes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal leg outcomes: %w", err)
		}
	}

	return wager, nil
}
