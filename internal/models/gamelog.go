package models

import "time"

// GameLog represents one player's box-score line for one game.
// Team-level rows carry an empty PlayerName and only the score columns.
type GameLog struct {
	ID            int64     `db:"id" json:"id"`
	PlayerName    string    `db:"player_name" json:"player_name"`
	PlayerTeam    string    `db:"player_team" json:"player_team"`
	Opponent      string    `db:"opponent" json:"opponent"`
	GameDate      time.Time `db:"game_date" json:"game_date" validate:"required"`
	Home          bool      `db:"home" json:"home"`
	Minutes       float64   `db:"minutes" json:"minutes"`
	Points        int       `db:"points" json:"points"`
	Rebounds      int       `db:"rebounds" json:"rebounds"`
	Assists       int       `db:"assists" json:"assists"`
	Steals        int       `db:"steals" json:"steals"`
	Blocks        int       `db:"blocks" json:"blocks"`
	Threes        int       `db:"threes" json:"threes"`
	Turnovers     int       `db:"turnovers" json:"turnovers"`
	TeamScore     int       `db:"team_score" json:"team_score"`
	OpponentScore int       `db:"opponent_score" json:"opponent_score"`
	Final         bool      `db:"final" json:"final"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Played reports whether the player actually took the floor
func (g *GameLog) Played() bool {
	return g.Minutes > 0
}

// IsTeamRow reports whether this is a team-level score record
func (g *GameLog) IsTeamRow() bool {
	return g.PlayerName == ""
}

// StatValue returns the value of a base or combination stat for this game.
// The second return is false when the stat type is unknown.
func (g *GameLog) StatValue(statType string) (float64, bool) {
	if parts, ok := ComboConstituents[statType]; ok {
		total := 0.0
		for _, part := range parts {
			v, ok := g.StatValue(part)
			if !ok {
				return 0, false
			}
			total += v
		}
		return total, true
	}
	switch statType {
	case StatPoints:
		return float64(g.Points), true
	case StatRebounds:
		return float64(g.Rebounds), true
	case StatAssists:
		return float64(g.Assists), true
	case StatSteals:
		return float64(g.Steals), true
	case StatBlocks:
		return float64(g.Blocks), true
	case StatThrees:
		return float64(g.Threes), true
	case "turnovers":
		return float64(g.Turnovers), true
	case "minutes":
		return g.Minutes, true
	default:
		return 0, false
	}
}

// DefenseRank represents a team's league rank against a stat type.
// Rank 1 is the stingiest defense of 30; rank 0 means unknown.
type DefenseRank struct {
	Team      string    `db:"team" json:"team" validate:"required"`
	StatType  string    `db:"stat_type" json:"stat_type" validate:"required"`
	Rank      int       `db:"rank" json:"rank" validate:"gte=0,lte=30"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Known reports whether the rank carries real data
func (d *DefenseRank) Known() bool {
	return d.Rank >= 1 && d.Rank <= 30
}
