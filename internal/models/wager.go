package models

import (
	"time"

	"github.com/google/uuid"
)

// RiskTier represents the risk profile a wager was assembled under
type RiskTier string

const (
	RiskConservative RiskTier = "conservative"
	RiskBalanced     RiskTier = "balanced"
	RiskValue        RiskTier = "value"
)

// WagerStatus represents the settlement state of a wager
type WagerStatus string

const (
	WagerPending WagerStatus = "pending"
	WagerWon     WagerStatus = "won"
	WagerLost    WagerStatus = "lost"
	WagerNoData  WagerStatus = "no_data"
	WagerPartial WagerStatus = "partial"
)

// BetType classifies what a leg settles against
type BetType string

const (
	BetPlayerProp    BetType = "player_prop"
	BetTeamTotal     BetType = "team_total"
	BetTeamSpread    BetType = "team_spread"
	BetTeamMoneyline BetType = "team_moneyline"
)

// LegResult represents the outcome of a single leg after reconciliation
type LegResult string

const (
	LegHit    LegResult = "hit"
	LegMiss   LegResult = "miss"
	LegPush   LegResult = "push"
	LegNoData LegResult = "no_data"
)

// Resolved reports whether the leg reached a definite outcome
func (r LegResult) Resolved() bool {
	return r == LegHit || r == LegMiss || r == LegPush
}

// Leg represents one selection inside a wager. Legs are immutable once
// the wager is stored; settlement reads them and never writes them.
type Leg struct {
	PlayerName    string  `json:"player_name"`
	TeamName      string  `json:"team_name"`
	StatType      string  `json:"stat_type"`
	Side          Side    `json:"side"`
	Line          float64 `json:"line"`
	Odds          int     `json:"odds"`
	BetType       BetType `json:"bet_type"`
	PredictedProb float64 `json:"predicted_prob"`
	Edge          float64 `json:"edge"`
	Engine        string  `json:"engine"`
	Description   string  `json:"description"`
}

// LegOutcome pairs a leg with its reconciled result
type LegOutcome struct {
	Leg        Leg       `json:"leg"`
	Result     LegResult `json:"result"`
	Actual     float64   `json:"actual"`
	MatchScore float64   `json:"match_score"`
	Detail     string    `json:"detail,omitempty"`
}

// Wager represents an assembled parlay. Legs and the original metrics are
// immutable after creation; settlement adds Status, SettledAt and
// LegOutcomes only.
type Wager struct {
	ID              uuid.UUID    `db:"id" json:"id"`
	Tier            RiskTier     `db:"tier" json:"tier" validate:"required,oneof=conservative balanced value"`
	Engine          string       `db:"engine" json:"engine"`
	Legs            []Leg        `db:"legs" json:"legs" validate:"required,min=1"`
	LegCount        int          `db:"leg_count" json:"leg_count"`
	TotalEdge       float64      `db:"total_edge" json:"total_edge"`
	CombinedHitRate float64      `db:"combined_hit_rate" json:"combined_hit_rate"`
	ConfidenceScore float64      `db:"confidence_score" json:"confidence_score"`
	CombinedOdds    float64      `db:"combined_odds" json:"combined_odds"`
	TargetDate      time.Time    `db:"target_date" json:"target_date" validate:"required"`
	Status          WagerStatus  `db:"status" json:"status"`
	LegOutcomes     []LegOutcome `db:"leg_outcomes" json:"leg_outcomes,omitempty"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
	SettledAt       *time.Time   `db:"settled_at" json:"settled_at"`
}

// IsSettled reports whether settlement has produced a terminal status
func (w *Wager) IsSettled() bool {
	return w.Status != WagerPending && w.SettledAt != nil
}

// StatTypeSpread counts the distinct stat types across legs
func (w *Wager) StatTypeSpread() int {
	seen := make(map[string]struct{}, len(w.Legs))
	for _, leg := range w.Legs {
		seen[leg.StatType] = struct{}{}
	}
	return len(seen)
}
