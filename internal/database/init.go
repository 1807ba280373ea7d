package database

import (
	"context"
	"fmt"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/config"
)

// schema holds the idempotent DDL for every table the pipeline writes.
// All derived tables carry a natural key so re-runs upsert instead of
// duplicating.
const schema = `
CREATE TABLE IF NOT EXISTS prop_lines (
    id UUID PRIMARY KEY,
    source TEXT NOT NULL,
    player_name TEXT NOT NULL,
    team_name TEXT NOT NULL DEFAULT '',
    opponent TEXT NOT NULL DEFAULT '',
    home BOOLEAN NOT NULL DEFAULT false,
    sport TEXT NOT NULL,
    stat_type TEXT NOT NULL,
    side TEXT NOT NULL,
    line DOUBLE PRECISION NOT NULL,
    odds INTEGER NOT NULL DEFAULT 0,
    event_id TEXT NOT NULL DEFAULT '',
    commence_time TIMESTAMPTZ,
    game_date DATE NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (source, player_name, stat_type, side, line, game_date)
);
CREATE INDEX IF NOT EXISTS idx_prop_lines_game_date ON prop_lines (game_date);

CREATE TABLE IF NOT EXISTS game_logs (
    id BIGSERIAL PRIMARY KEY,
    player_name TEXT NOT NULL DEFAULT '',
    player_team TEXT NOT NULL DEFAULT '',
    opponent TEXT NOT NULL DEFAULT '',
    game_date DATE NOT NULL,
    home BOOLEAN NOT NULL DEFAULT false,
    minutes DOUBLE PRECISION NOT NULL DEFAULT 0,
    points INTEGER NOT NULL DEFAULT 0,
    rebounds INTEGER NOT NULL DEFAULT 0,
    assists INTEGER NOT NULL DEFAULT 0,
    steals INTEGER NOT NULL DEFAULT 0,
    blocks INTEGER NOT NULL DEFAULT 0,
    threes INTEGER NOT NULL DEFAULT 0,
    turnovers INTEGER NOT NULL DEFAULT 0,
    team_score INTEGER NOT NULL DEFAULT 0,
    opponent_score INTEGER NOT NULL DEFAULT 0,
    final BOOLEAN NOT NULL DEFAULT false,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (player_name, player_team, game_date)
);
CREATE INDEX IF NOT EXISTS idx_game_logs_player_date ON game_logs (player_name, game_date DESC);

CREATE TABLE IF NOT EXISTS defense_ranks (
    team TEXT NOT NULL,
    stat_type TEXT NOT NULL,
    rank INTEGER NOT NULL DEFAULT 0,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (team, stat_type)
);

CREATE TABLE IF NOT EXISTS edge_assessments (
    id UUID PRIMARY KEY,
    player_name TEXT NOT NULL,
    team_name TEXT NOT NULL DEFAULT '',
    sport TEXT NOT NULL DEFAULT '',
    stat_type TEXT NOT NULL,
    side TEXT NOT NULL,
    line DOUBLE PRECISION NOT NULL,
    odds INTEGER NOT NULL DEFAULT 0,
    source TEXT NOT NULL DEFAULT '',
    event_id TEXT NOT NULL DEFAULT '',
    game_date DATE NOT NULL,
    proj_recent_form DOUBLE PRECISION NOT NULL DEFAULT 0,
    proj_matchup DOUBLE PRECISION NOT NULL DEFAULT 0,
    proj_minutes_adj DOUBLE PRECISION NOT NULL DEFAULT 0,
    proj_per_minute DOUBLE PRECISION NOT NULL DEFAULT 0,
    proj_home_away DOUBLE PRECISION NOT NULL DEFAULT 0,
    true_median DOUBLE PRECISION NOT NULL DEFAULT 0,
    adjusted_median DOUBLE PRECISION NOT NULL DEFAULT 0,
    edge DOUBLE PRECISION NOT NULL DEFAULT 0,
    tier TEXT NOT NULL DEFAULT 'NO_BET',
    confidence TEXT NOT NULL DEFAULT 'MODERATE',
    hit_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
    volatility DOUBLE PRECISION NOT NULL DEFAULT 0,
    std_dev DOUBLE PRECISION NOT NULL DEFAULT 0,
    season_std_dev DOUBLE PRECISION NOT NULL DEFAULT 0,
    games_analyzed INTEGER NOT NULL DEFAULT 0,
    matchup_games INTEGER NOT NULL DEFAULT 0,
    defense_rank INTEGER NOT NULL DEFAULT 0,
    skip_reason TEXT NOT NULL DEFAULT '',
    engine TEXT NOT NULL DEFAULT 'control',
    analyzed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (player_name, stat_type, side, line, game_date)
);
CREATE INDEX IF NOT EXISTS idx_edge_assessments_date_tier ON edge_assessments (game_date, tier);

CREATE TABLE IF NOT EXISTS wagers (
    id UUID PRIMARY KEY,
    tier TEXT NOT NULL,
    engine TEXT NOT NULL DEFAULT 'control',
    legs JSONB NOT NULL,
    leg_count INTEGER NOT NULL,
    total_edge DOUBLE PRECISION NOT NULL DEFAULT 0,
    combined_hit_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
    confidence_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    combined_odds DOUBLE PRECISION NOT NULL DEFAULT 0,
    target_date DATE NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    leg_outcomes JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    settled_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_wagers_status_date ON wagers (status, target_date);

CREATE TABLE IF NOT EXISTS calibration_metrics (
    dimension TEXT NOT NULL,
    dimension_value TEXT NOT NULL,
    resolved INTEGER NOT NULL DEFAULT 0,
    hits INTEGER NOT NULL DEFAULT 0,
    pushes INTEGER NOT NULL DEFAULT 0,
    misses INTEGER NOT NULL DEFAULT 0,
    accuracy DOUBLE PRECISION NOT NULL DEFAULT 0,
    mean_predicted DOUBLE PRECISION NOT NULL DEFAULT 0,
    calibration_factor DOUBLE PRECISION NOT NULL DEFAULT 0,
    sufficient BOOLEAN NOT NULL DEFAULT false,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (dimension, dimension_value)
);
`

// Initialize creates a database connection pool and ensures the schema
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema applies the idempotent DDL for all pipeline tables
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
