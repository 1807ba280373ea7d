package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Side represents the direction of a prop line (OVER or UNDER)
type Side string

const (
	SideOver  Side = "OVER"
	SideUnder Side = "UNDER"
)

// Base stat types offered by the line suppliers
const (
	StatPoints   = "points"
	StatRebounds = "rebounds"
	StatAssists  = "assists"
	StatThrees   = "threes"
	StatSteals   = "steals"
	StatBlocks   = "blocks"
)

// Combination stat types, settled as the sum of their constituents
const (
	StatPtsRebsAsts = "pts_rebs_asts"
	StatPtsRebs     = "pts_rebs"
	StatPtsAsts     = "pts_asts"
	StatRebsAsts    = "rebs_asts"
	StatStocks      = "stocks"
)

// ComboConstituents maps each combination stat to its base stats
var ComboConstituents = map[string][]string{
	StatPtsRebsAsts: {StatPoints, StatRebounds, StatAssists},
	StatPtsRebs:     {StatPoints, StatRebounds},
	StatPtsAsts:     {StatPoints, StatAssists},
	StatRebsAsts:    {StatRebounds, StatAssists},
	StatStocks:      {StatSteals, StatBlocks},
}

// IsComboStat reports whether statType settles as a sum of base stats
func IsComboStat(statType string) bool {
	_, ok := ComboConstituents[statType]
	return ok
}

// PropLine represents a single betting line offered by an upstream book.
// Lines are read-only once ingested; a changed line arrives as a new record.
type PropLine struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Source       string     `db:"source" json:"source" validate:"required"`
	PlayerName   string     `db:"player_name" json:"player_name" validate:"required"`
	TeamName     string     `db:"team_name" json:"team_name"`
	Opponent     string     `db:"opponent" json:"opponent"`
	Home         bool       `db:"home" json:"home"`
	Sport        string     `db:"sport" json:"sport" validate:"required"`
	StatType     string     `db:"stat_type" json:"stat_type" validate:"required"`
	Side         Side       `db:"side" json:"side" validate:"required,oneof=OVER UNDER"`
	Line         float64    `db:"line" json:"line" validate:"required,gt=0"`
	Odds         int        `db:"odds" json:"odds"`
	EventID      string     `db:"event_id" json:"event_id"`
	CommenceTime *time.Time `db:"commence_time" json:"commence_time"`
	GameDate     time.Time  `db:"game_date" json:"game_date" validate:"required"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// IsActive reports whether the line's game has not yet started. A line
// without a commence time stays active through its game date.
func (p *PropLine) IsActive(now time.Time) bool {
	if p.CommenceTime == nil {
		return !now.After(p.GameDate.Add(24 * time.Hour))
	}
	return now.Before(*p.CommenceTime)
}

// MarketKey identifies the market a line belongs to, ignoring the book.
// Lines from different sources with the same key are duplicates.
func (p *PropLine) MarketKey() string {
	return fmt.Sprintf("%s|%s|%s|%.1f|%s",
		strings.ToLower(p.PlayerName), p.StatType, p.Side, p.Line,
		p.GameDate.Format("2006-01-02"))
}

// Describe renders a human-readable label for logs and summaries
func (p *PropLine) Describe() string {
	return fmt.Sprintf("%s %s %s %.1f", p.PlayerName, p.Side, p.StatType, p.Line)
}
