package models

import (
	"time"

	"github.com/google/uuid"
)

// Tier represents the betting recommendation for an assessed line
type Tier string

const (
	TierStrong Tier = "STRONG"
	TierLean   Tier = "LEAN"
	TierNoBet  Tier = "NO_BET"
)

// Confidence buckets an assessment by the stability of its signal
type Confidence string

const (
	ConfidenceElite    Confidence = "ELITE"
	ConfidenceStrong   Confidence = "STRONG"
	ConfidenceModerate Confidence = "MODERATE"
)

// Skip reasons recorded on assessments the engine could not score
const (
	SkipUnknownProp         = "unknown_prop"
	SkipInsufficientHistory = "insufficient_history"
	SkipMissingLine         = "missing_line"
)

// Projection carries the five weighted sub-projections behind a median.
// Zero sub-values mean the input window was empty and its weight was
// redistributed across the rest.
type Projection struct {
	RecentForm float64 `db:"proj_recent_form" json:"recent_form"`
	Matchup    float64 `db:"proj_matchup" json:"matchup"`
	MinutesAdj float64 `db:"proj_minutes_adj" json:"minutes_adj"`
	PerMinute  float64 `db:"proj_per_minute" json:"per_minute"`
	HomeAway   float64 `db:"proj_home_away" json:"home_away"`
}

// EdgeAssessment represents one scored line: projection, edge and tier.
// Assessments are derived data, recomputed and upserted each analysis run.
type EdgeAssessment struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PlayerName     string     `db:"player_name" json:"player_name" validate:"required"`
	TeamName       string     `db:"team_name" json:"team_name"`
	Sport          string     `db:"sport" json:"sport"`
	StatType       string     `db:"stat_type" json:"stat_type" validate:"required"`
	Side           Side       `db:"side" json:"side" validate:"required,oneof=OVER UNDER"`
	Line           float64    `db:"line" json:"line" validate:"gt=0"`
	Odds           int        `db:"odds" json:"odds"`
	Source         string     `db:"source" json:"source"`
	EventID        string     `db:"event_id" json:"event_id"`
	GameDate       time.Time  `db:"game_date" json:"game_date" validate:"required"`
	Projection     Projection `db:"-" json:"projection"`
	TrueMedian     float64    `db:"true_median" json:"true_median"`
	AdjustedMedian float64    `db:"adjusted_median" json:"adjusted_median"`
	Edge           float64    `db:"edge" json:"edge"`
	Tier           Tier       `db:"tier" json:"tier"`
	Confidence     Confidence `db:"confidence" json:"confidence"`
	HitRate        float64    `db:"hit_rate" json:"hit_rate"`
	Volatility     float64    `db:"volatility" json:"volatility"`
	StdDev         float64    `db:"std_dev" json:"std_dev"`
	SeasonStdDev   float64    `db:"season_std_dev" json:"season_std_dev"`
	GamesAnalyzed  int        `db:"games_analyzed" json:"games_analyzed"`
	MatchupGames   int        `db:"matchup_games" json:"matchup_games"`
	DefenseRank    int        `db:"defense_rank" json:"defense_rank"`
	SkipReason     string     `db:"skip_reason" json:"skip_reason,omitempty"`
	Engine         string     `db:"engine" json:"engine"`
	AnalyzedAt     time.Time  `db:"analyzed_at" json:"analyzed_at"`
}

// Playable reports whether the assessment is bettable at any tier
func (a *EdgeAssessment) Playable() bool {
	return a.Tier == TierStrong || a.Tier == TierLean
}

// AbsEdge returns the magnitude of the projected edge
func (a *EdgeAssessment) AbsEdge() float64 {
	if a.Edge < 0 {
		return -a.Edge
	}
	return a.Edge
}

// FavorableDefense reports whether the opponent's rank pushes the same
// direction as the bet side (weak defense for an OVER, strong for an UNDER).
func (a *EdgeAssessment) FavorableDefense() bool {
	if a.DefenseRank == 0 {
		return false
	}
	if a.Side == SideOver {
		return a.DefenseRank >= 21
	}
	return a.DefenseRank <= 10
}
