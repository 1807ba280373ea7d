package feeds

import (
	"strconv"
	"strings"
	"time"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

// Record is one raw upstream JSON object before normalization.
type Record map[string]any

// Adapter normalizes heterogeneous upstream record shapes into canonical
// model types. Suppliers disagree on field spellings, date formats and
// stat naming; all of that is resolved here so downstream packages only
// ever see one shape.
type Adapter struct {
	statAliases map[string]string
	sideAliases map[string]models.Side
}

// NewAdapter builds an adapter with its alias tables. The tables are
// fixed at construction and never mutated.
func NewAdapter() *Adapter {
	return &Adapter{
		statAliases: map[string]string{
			"points":                           models.StatPoints,
			"pts":                              models.StatPoints,
			"player_points":                    models.StatPoints,
			"rebounds":                         models.StatRebounds,
			"reb":                              models.StatRebounds,
			"rebs":                             models.StatRebounds,
			"trb":                              models.StatRebounds,
			"player_rebounds":                  models.StatRebounds,
			"assists":                          models.StatAssists,
			"ast":                              models.StatAssists,
			"asts":                             models.StatAssists,
			"player_assists":                   models.StatAssists,
			"threes":                           models.StatThrees,
			"3pm":                              models.StatThrees,
			"fg3m":                             models.StatThrees,
			"threes_made":                      models.StatThrees,
			"three_pointers_made":              models.StatThrees,
			"player_threes":                    models.StatThrees,
			"steals":                           models.StatSteals,
			"stl":                              models.StatSteals,
			"player_steals":                    models.StatSteals,
			"blocks":                           models.StatBlocks,
			"blk":                              models.StatBlocks,
			"player_blocks":                    models.StatBlocks,
			"pts_rebs_asts":                    models.StatPtsRebsAsts,
			"pra":                              models.StatPtsRebsAsts,
			"points_rebounds_assists":          models.StatPtsRebsAsts,
			"player_points_rebounds_assists":   models.StatPtsRebsAsts,
			"pts_rebs":                         models.StatPtsRebs,
			"points_rebounds":                  models.StatPtsRebs,
			"pts_asts":                         models.StatPtsAsts,
			"points_assists":                   models.StatPtsAsts,
			"rebs_asts":                        models.StatRebsAsts,
			"rebounds_assists":                 models.StatRebsAsts,
			"stocks":                           models.StatStocks,
			"steals_blocks":                    models.StatStocks,
		},
		sideAliases: map[string]models.Side{
			"over":  models.SideOver,
			"o":     models.SideOver,
			"under": models.SideUnder,
			"u":     models.SideUnder,
		},
	}
}

// NormalizeStat maps an upstream stat spelling to its canonical name.
// Unknown spellings pass through lowercased; the engine decides whether
// to skip them, so a new upstream market never breaks ingestion.
func (a *Adapter) NormalizeStat(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := a.statAliases[key]; ok {
		return canonical
	}
	return key
}

// PropLine normalizes one raw line record.
func (a *Adapter) PropLine(rec Record) (*models.PropLine, error) {
	player, ok := stringField(rec, "player_name", "player", "athlete", "name")
	if !ok || player == "" {
		return nil, &models.ValidationError{Field: "player_name", Reason: "missing"}
	}

	source, ok := stringField(rec, "source", "book", "bookmaker", "sportsbook")
	if !ok || source == "" {
		return nil, &models.ValidationError{Field: "source", Reason: "missing"}
	}

	rawStat, ok := stringField(rec, "stat_type", "stat", "market", "market_key")
	if !ok || rawStat == "" {
		return nil, &models.ValidationError{Field: "stat_type", Reason: "missing"}
	}

	rawSide, ok := stringField(rec, "side", "label", "bet_side")
	if !ok {
		return nil, &models.ValidationError{Field: "side", Reason: "missing"}
	}
	side, ok := a.sideAliases[strings.ToLower(strings.TrimSpace(rawSide))]
	if !ok {
		return nil, &models.ValidationError{Field: "side", Reason: "unrecognized value " + rawSide}
	}

	line, ok := floatField(rec, "line", "point", "handicap", "value")
	if !ok {
		return nil, &models.ValidationError{Field: "line", Reason: "missing"}
	}
	if line <= 0 {
		return nil, &models.ValidationError{Field: "line", Reason: "non-positive"}
	}

	pl := &models.PropLine{
		Source:     strings.ToLower(source),
		PlayerName: player,
		StatType:   a.NormalizeStat(rawStat),
		Side:       side,
		Line:       line,
	}

	if team, ok := stringField(rec, "team_name", "team", "team_abbr"); ok {
		pl.TeamName = team
	}
	if opp, ok := stringField(rec, "opponent", "opp", "opponent_team"); ok {
		pl.Opponent = opp
	}
	pl.Home = homeField(rec)
	if sport, ok := stringField(rec, "sport", "league"); ok {
		pl.Sport = strings.ToLower(sport)
	}
	if odds, ok := intField(rec, "odds", "price", "american_odds"); ok {
		pl.Odds = odds
	}
	if eventID, ok := stringField(rec, "event_id", "game_id", "event"); ok {
		pl.EventID = eventID
	}
	if commence, ok := timeField(rec, "commence_time", "start_time", "tipoff"); ok {
		pl.CommenceTime = &commence
	}

	if gameDate, ok := timeField(rec, "game_date", "date", "event_date"); ok {
		pl.GameDate = dateOnly(gameDate)
	} else if pl.CommenceTime != nil {
		pl.GameDate = dateOnly(*pl.CommenceTime)
	} else {
		return nil, &models.ValidationError{Field: "game_date", Reason: "missing"}
	}

	return pl, nil
}

// GameLog normalizes one raw game log or box score record. Team-level
// records carry an empty player name and final scores.
func (a *Adapter) GameLog(rec Record) (*models.GameLog, error) {
	team, ok := stringField(rec, "player_team", "team", "team_name", "team_abbr")
	if !ok || team == "" {
		return nil, &models.ValidationError{Field: "player_team", Reason: "missing"}
	}

	gameDate, ok := timeField(rec, "game_date", "date", "game_day")
	if !ok {
		return nil, &models.ValidationError{Field: "game_date", Reason: "missing"}
	}

	gl := &models.GameLog{
		PlayerTeam: team,
		GameDate:   dateOnly(gameDate),
	}

	if player, ok := stringField(rec, "player_name", "player", "athlete", "name"); ok {
		gl.PlayerName = player
	}
	if opp, ok := stringField(rec, "opponent", "opp", "opponent_team", "vs"); ok {
		gl.Opponent = opp
	}

	gl.Home = homeField(rec)
	gl.Final = finalField(rec)

	if v, ok := floatField(rec, "minutes", "min", "mins", "minutes_played"); ok {
		gl.Minutes = v
	}
	if v, ok := intField(rec, "points", "pts"); ok {
		gl.Points = v
	}
	if v, ok := intField(rec, "rebounds", "reb", "trb"); ok {
		gl.Rebounds = v
	}
	if v, ok := intField(rec, "assists", "ast"); ok {
		gl.Assists = v
	}
	if v, ok := intField(rec, "steals", "stl"); ok {
		gl.Steals = v
	}
	if v, ok := intField(rec, "blocks", "blk"); ok {
		gl.Blocks = v
	}
	if v, ok := intField(rec, "threes", "fg3m", "3pm", "three_pointers_made"); ok {
		gl.Threes = v
	}
	if v, ok := intField(rec, "turnovers", "tov", "to"); ok {
		gl.Turnovers = v
	}
	if v, ok := intField(rec, "team_score", "score", "pts_for"); ok {
		gl.TeamScore = v
	}
	if v, ok := intField(rec, "opponent_score", "opp_score", "pts_against"); ok {
		gl.OpponentScore = v
	}

	return gl, nil
}

// DefenseRank normalizes one raw defensive ranking record. Suppliers
// send either a direct 1-30 rank or a 0-100 strength code where higher
// means stingier; codes map onto the rank scale and 0 stays unknown.
func (a *Adapter) DefenseRank(rec Record) (*models.DefenseRank, error) {
	team, ok := stringField(rec, "team", "team_name", "team_abbr")
	if !ok || team == "" {
		return nil, &models.ValidationError{Field: "team", Reason: "missing"}
	}

	rawStat, ok := stringField(rec, "stat_type", "stat", "category")
	if !ok || rawStat == "" {
		return nil, &models.ValidationError{Field: "stat_type", Reason: "missing"}
	}

	dr := &models.DefenseRank{
		Team:     team,
		StatType: a.NormalizeStat(rawStat),
	}

	if rank, ok := intField(rec, "rank", "defense_rank", "def_rank"); ok {
		if rank < 0 || rank > 30 {
			return nil, &models.ValidationError{Field: "rank", Reason: "out of range"}
		}
		dr.Rank = rank
		return dr, nil
	}

	if code, ok := intField(rec, "code", "rating", "defense_code"); ok {
		dr.Rank = rankFromCode(code)
		return dr, nil
	}

	return nil, &models.ValidationError{Field: "rank", Reason: "missing"}
}

// rankFromCode converts a 0-100 defensive strength code (100 = stingiest)
// into a 1-30 rank. Code 0 means unknown.
func rankFromCode(code int) int {
	if code <= 0 {
		return 0
	}
	if code > 100 {
		code = 100
	}
	rank := 31 - (code*30+99)/100
	if rank < 1 {
		rank = 1
	}
	return rank
}

func stringField(rec Record, keys ...string) (string, bool) {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok {
			continue
		}
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s), true
		}
	}
	return "", false
}

func floatField(rec Record, keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case float64:
			return t, true
		case int:
			return float64(t), true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func intField(rec Record, keys ...string) (int, bool) {
	if f, ok := floatField(rec, keys...); ok {
		return int(f), true
	}
	return 0, false
}

// homeField reads a boolean home flag or a textual venue designation.
func homeField(rec Record) bool {
	for _, k := range []string{"home", "is_home", "home_game"} {
		if v, ok := rec[k]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
	}
	if loc, ok := stringField(rec, "location", "venue"); ok {
		return strings.EqualFold(loc, "home")
	}
	return false
}

// finalField reads a boolean final flag or a textual game status.
func finalField(rec Record) bool {
	for _, k := range []string{"final", "is_final", "game_final"} {
		if v, ok := rec[k]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
	}
	if status, ok := stringField(rec, "status", "game_status"); ok {
		s := strings.ToLower(status)
		return s == "final" || s == "complete" || s == "completed"
	}
	return false
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

func timeField(rec Record, keys ...string) (time.Time, bool) {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
