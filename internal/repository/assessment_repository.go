package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/database"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

const errScanAssessment = "failed to scan assessment: %w"

const assessmentColumns = `id, player_name, team_name, sport, stat_type, side, line, odds, source,
	       event_id, game_date, proj_recent_form, proj_matchup, proj_minutes_adj,
	       proj_per_minute, proj_home_away, true_median, adjusted_median, edge, tier,
	       confidence, hit_rate, volatility, std_dev, season_std_dev, games_analyzed,
	       matchup_games, defense_rank, skip_reason, engine, analyzed_at`

// PostgresAssessmentRepository implements AssessmentRepository for PostgreSQL
type PostgresAssessmentRepository struct {
	db *database.DB
}

// NewPostgresAssessmentRepository creates a new assessment repository
func NewPostgresAssessmentRepository(db *database.DB) AssessmentRepository {
	return &PostgresAssessmentRepository{db: db}
}

// Upsert stores an assessment, replacing the previous run's result for
// the same line.
func (r *PostgresAssessmentRepository) Upsert(ctx context.Context, a *models.EdgeAssessment) error {
	query := `
		INSERT INTO edge_assessments (id, player_name, team_name, sport, stat_type, side, line,
		                              odds, source, event_id, game_date, proj_recent_form,
		                              proj_matchup, proj_minutes_adj, proj_per_minute,
		                              proj_home_away, true_median, adjusted_median, edge, tier,
		                              confidence, hit_rate, volatility, std_dev, season_std_dev,
		                              games_analyzed, matchup_games, defense_rank, skip_reason,
		                              engine, analyzed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
		        $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31)
		ON CONFLICT (player_name, stat_type, side, line, game_date)
		DO UPDATE SET odds = EXCLUDED.odds, source = EXCLUDED.source,
		              proj_recent_form = EXCLUDED.proj_recent_form,
		              proj_matchup = EXCLUDED.proj_matchup,
		              proj_minutes_adj = EXCLUDED.proj_minutes_adj,
		              proj_per_minute = EXCLUDED.proj_per_minute,
		              proj_home_away = EXCLUDED.proj_home_away,
		              true_median = EXCLUDED.true_median,
		              adjusted_median = EXCLUDED.adjusted_median,
		              edge = EXCLUDED.edge, tier = EXCLUDED.tier,
		              confidence = EXCLUDED.confidence, hit_rate = EXCLUDED.hit_rate,
		              volatility = EXCLUDED.volatility, std_dev = EXCLUDED.std_dev,
		              season_std_dev = EXCLUDED.season_std_dev,
		              games_analyzed = EXCLUDED.games_analyzed,
		              matchup_games = EXCLUDED.matchup_games,
		              defense_rank = EXCLUDED.defense_rank,
		              skip_reason = EXCLUDED.skip_reason, engine = EXCLUDED.engine,
		              analyzed_at = EXCLUDED.analyzed_at
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		a.ID, a.PlayerName, a.TeamName, a.Sport, a.StatType, a.Side, a.Line, a.Odds, a.Source,
		a.EventID, a.GameDate, a.Projection.RecentForm, a.Projection.Matchup,
		a.Projection.MinutesAdj, a.Projection.PerMinute, a.Projection.HomeAway,
		a.TrueMedian, a.AdjustedMedian, a.Edge, a.Tier, a.Confidence, a.HitRate, a.Volatility,
		a.StdDev, a.SeasonStdDev, a.GamesAnalyzed, a.MatchupGames, a.DefenseRank, a.SkipReason,
		a.Engine, a.AnalyzedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert assessment: %w", err)
	}

	return nil
}

// GetByDate retrieves every assessment for a game date
func (r *PostgresAssessmentRepository) GetByDate(ctx context.Context, gameDate time.Time) ([]*models.EdgeAssessment, error) {
	query := `
		SELECT ` + assessmentColumns + `
		FROM edge_assessments
		WHERE game_date = $1
		ORDER BY ABS(edge) DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, gameDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	return scanAssessments(rows)
}

// GetPlayableByDate retrieves STRONG and LEAN assessments for a game date
func (r *PostgresAssessmentRepository) GetPlayableByDate(ctx context.Context, gameDate time.Time) ([]*models.EdgeAssessment, error) {
	query := `
		SELECT ` + assessmentColumns + `
		FROM edge_assessments
		WHERE game_date = $1 AND tier IN ('STRONG', 'LEAN')
		ORDER BY ABS(edge) DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, gameDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query playable assessments: %w", err)
	}
	defer rows.Close()

	return scanAssessments(rows)
}

func scanAssessments(rows pgx.Rows) ([]*models.EdgeAssessment, error) {
	var assessments []*models.EdgeAssessment
	for rows.Next() {
		a := &models.EdgeAssessment{}
		err := rows.Scan(
			&a.ID, &a.PlayerName, &a.TeamName, &a.Sport, &a.StatType, &a.Side, &a.Line, &a.Odds,
			&a.Source, &a.EventID, &a.GameDate, &a.Projection.RecentForm, &a.Projection.Matchup,
			&a.Projection.MinutesAdj, &a.Projection.PerMinute, &a.Projection.HomeAway,
			&a.TrueMedian, &a.AdjustedMedian, &a.Edge, &a.Tier, &a.Confidence, &a.HitRate,
			&a.Volatility, &a.StdDev, &a.SeasonStdDev, &a.GamesAnalyzed, &a.MatchupGames,
			&a.DefenseRank, &a.SkipReason, &a.Engine, &a.AnalyzedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanAssessment, err)
		}
		assessments = append(assessments, a)
	}

	return assessments, rows.Err()
}
