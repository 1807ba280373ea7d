package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/database"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

const errScanCalibration = "failed to scan calibration metric: %w"

const calibrationColumns = `dimension, dimension_value, resolved, hits, pushes, misses, accuracy,
	       mean_predicted, calibration_factor, sufficient, updated_at`

// PostgresCalibrationRepository implements CalibrationRepository for PostgreSQL
type PostgresCalibrationRepository struct {
	db *database.DB
}

// NewPostgresCalibrationRepository creates a new calibration repository
func NewPostgresCalibrationRepository(db *database.DB) CalibrationRepository {
	return &PostgresCalibrationRepository{db: db}
}

// Upsert stores a calibration slice, replacing the previous rollup
func (r *PostgresCalibrationRepository) Upsert(ctx context.Context, m *models.CalibrationMetric) error {
	query := `
		INSERT INTO calibration_metrics (dimension, dimension_value, resolved, hits, pushes,
		                                 misses, accuracy, mean_predicted, calibration_factor,
		                                 sufficient, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (dimension, dimension_value)
		DO UPDATE SET resolved = EXCLUDED.resolved, hits = EXCLUDED.hits,
		              pushes = EXCLUDED.pushes, misses = EXCLUDED.misses,
		              accuracy = EXCLUDED.accuracy, mean_predicted = EXCLUDED.mean_predicted,
		              calibration_factor = EXCLUDED.calibration_factor,
		              sufficient = EXCLUDED.sufficient, updated_at = NOW()
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		m.Dimension, m.DimensionValue, m.Resolved, m.Hits, m.Pushes, m.Misses,
		m.Accuracy, m.MeanPredicted, m.CalibrationFactor, m.Sufficient,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert calibration metric: %w", err)
	}

	return nil
}

// GetAll retrieves every calibration slice
func (r *PostgresCalibrationRepository) GetAll(ctx context.Context) ([]*models.CalibrationMetric, error) {
	query := `
		SELECT ` + calibrationColumns + `
		FROM calibration_metrics
		ORDER BY dimension, dimension_value
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query calibration metrics: %w", err)
	}
	defer rows.Close()

	return scanCalibrationMetrics(rows)
}

// GetByDimension retrieves all slices of one dimension
func (r *PostgresCalibrationRepository) GetByDimension(ctx context.Context, dimension string) ([]*models.CalibrationMetric, error) {
	query := `
		SELECT ` + calibrationColumns + `
		FROM calibration_metrics
		WHERE dimension = $1
		ORDER BY dimension_value
	`

	rows, err := r.db.GetPool().Query(ctx, query, dimension)
	if err != nil {
		return nil, fmt.Errorf("failed to query calibration dimension: %w", err)
	}
	defer rows.Close()

	return scanCalibrationMetrics(rows)
}

func scanCalibrationMetrics(rows pgx.Rows) ([]*models.CalibrationMetric, error) {
	var metrics []*models.CalibrationMetric
	for rows.Next() {
		m := &models.CalibrationMetric{}
		err := rows.Scan(
			&m.Dimension, &m.DimensionValue, &m.Resolved, &m.Hits, &m.Pushes, &m.Misses,
			&m.Accuracy, &m.MeanPredicted, &m.CalibrationFactor, &m.Sufficient, &m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanCalibration, err)
		}
		metrics = append(metrics, m)
	}

	return metrics, rows.Err()
}
