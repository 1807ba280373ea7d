package feeds

import (
	"errors"
	"testing"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

// TestAdapterPropLineCanonical tests normalization of a record that
// already uses canonical spellings
func TestAdapterPropLineCanonical(t *testing.T) {
	adapter := NewAdapter()

	line, err := adapter.PropLine(Record{
		"source":      "draftkings",
		"player_name": "Nikola Jokic",
		"team_name":   "Denver Nuggets",
		"sport":       "nba",
		"stat_type":   "points",
		"side":        "OVER",
		"line":        26.5,
		"odds":        -115.0,
		"event_id":    "evt-1001",
		"game_date":   "2025-01-15",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if line.PlayerName != "Nikola Jokic" {
		t.Errorf("Expected player Nikola Jokic, got %s", line.PlayerName)
	}
	if line.StatType != models.StatPoints {
		t.Errorf("Expected stat points, got %s", line.StatType)
	}
	if line.Side != models.SideOver {
		t.Errorf("Expected side OVER, got %s", line.Side)
	}
	if line.Line != 26.5 {
		t.Errorf("Expected line 26.5, got %f", line.Line)
	}
	if line.Odds != -115 {
		t.Errorf("Expected odds -115, got %d", line.Odds)
	}
	if line.GameDate.Format("2006-01-02") != "2025-01-15" {
		t.Errorf("Expected game date 2025-01-15, got %s", line.GameDate)
	}
}

// TestAdapterPropLineAlternateSpellings tests that supplier-specific
// field names map onto the canonical record
func TestAdapterPropLineAlternateSpellings(t *testing.T) {
	adapter := NewAdapter()

	line, err := adapter.PropLine(Record{
		"book":    "FanDuel",
		"athlete": "Luka Doncic",
		"team":    "Dallas Mavericks",
		"market":  "pts",
		"label":   "Over",
		"point":   "31.5",
		"price":   "-110",
		"date":    "2025-01-15T00:00:00Z",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if line.Source != "fanduel" {
		t.Errorf("Expected source fanduel, got %s", line.Source)
	}
	if line.PlayerName != "Luka Doncic" {
		t.Errorf("Expected player Luka Doncic, got %s", line.PlayerName)
	}
	if line.StatType != models.StatPoints {
		t.Errorf("Expected stat points, got %s", line.StatType)
	}
	if line.Side != models.SideOver {
		t.Errorf("Expected side OVER, got %s", line.Side)
	}
	if line.Line != 31.5 {
		t.Errorf("Expected line 31.5, got %f", line.Line)
	}
	if line.Odds != -110 {
		t.Errorf("Expected odds -110, got %d", line.Odds)
	}
}

// TestAdapterPropLineGameDateFromCommence tests game date derivation
// when only a tipoff time is present
func TestAdapterPropLineGameDateFromCommence(t *testing.T) {
	adapter := NewAdapter()

	line, err := adapter.PropLine(Record{
		"source":      "betmgm",
		"player":      "Jayson Tatum",
		"stat":        "rebounds",
		"side":        "under",
		"line":        8.5,
		"commence_time": "2025-01-15T19:30:00Z",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if line.CommenceTime == nil {
		t.Fatal("Expected commence time to be set")
	}
	if line.GameDate.Format("2006-01-02") != "2025-01-15" {
		t.Errorf("Expected game date 2025-01-15, got %s", line.GameDate)
	}
}

// TestAdapterPropLineInvalid tests rejection of malformed records
func TestAdapterPropLineInvalid(t *testing.T) {
	adapter := NewAdapter()

	tests := []struct {
		name string
		rec  Record
	}{
		{"Missing player", Record{"source": "dk", "stat": "points", "side": "over", "line": 20.5, "date": "2025-01-15"}},
		{"Missing source", Record{"player": "A B", "stat": "points", "side": "over", "line": 20.5, "date": "2025-01-15"}},
		{"Missing stat", Record{"source": "dk", "player": "A B", "side": "over", "line": 20.5, "date": "2025-01-15"}},
		{"Missing side", Record{"source": "dk", "player": "A B", "stat": "points", "line": 20.5, "date": "2025-01-15"}},
		{"Bad side", Record{"source": "dk", "player": "A B", "stat": "points", "side": "middle", "line": 20.5, "date": "2025-01-15"}},
		{"Missing line", Record{"source": "dk", "player": "A B", "stat": "points", "side": "over", "date": "2025-01-15"}},
		{"Zero line", Record{"source": "dk", "player": "A B", "stat": "points", "side": "over", "line": 0.0, "date": "2025-01-15"}},
		{"Negative line", Record{"source": "dk", "player": "A B", "stat": "points", "side": "over", "line": -3.5, "date": "2025-01-15"}},
		{"Missing date", Record{"source": "dk", "player": "A B", "stat": "points", "side": "over", "line": 20.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := adapter.PropLine(tt.rec)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			var vErr *models.ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("Expected ValidationError, got %T", err)
			}
		})
	}
}

// TestAdapterPropLineUnknownStat tests that unrecognized markets pass
// through instead of failing ingestion
func TestAdapterPropLineUnknownStat(t *testing.T) {
	adapter := NewAdapter()

	line, err := adapter.PropLine(Record{
		"source": "dk",
		"player": "A B",
		"stat":   "Fantasy_Points",
		"side":   "over",
		"line":   38.5,
		"date":   "2025-01-15",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if line.StatType != "fantasy_points" {
		t.Errorf("Expected stat fantasy_points, got %s", line.StatType)
	}
}

// TestNormalizeStat tests stat spelling normalization
func TestNormalizeStat(t *testing.T) {
	adapter := NewAdapter()

	tests := []struct {
		raw      string
		expected string
	}{
		{"pts", models.StatPoints},
		{"player_points", models.StatPoints},
		{"trb", models.StatRebounds},
		{"ast", models.StatAssists},
		{"fg3m", models.StatThrees},
		{"3pm", models.StatThrees},
		{"stl", models.StatSteals},
		{"blk", models.StatBlocks},
		{"pra", models.StatPtsRebsAsts},
		{"points_rebounds_assists", models.StatPtsRebsAsts},
		{"points_rebounds", models.StatPtsRebs},
		{"points_assists", models.StatPtsAsts},
		{"rebounds_assists", models.StatRebsAsts},
		{"steals_blocks", models.StatStocks},
		{" Points ", models.StatPoints},
		{"something_new", "something_new"},
	}

	for _, tt := range tests {
		if got := adapter.NormalizeStat(tt.raw); got != tt.expected {
			t.Errorf("NormalizeStat(%q): expected %s, got %s", tt.raw, tt.expected, got)
		}
	}
}

// TestAdapterGameLogPlayerRow tests normalization of a player box line
func TestAdapterGameLogPlayerRow(t *testing.T) {
	adapter := NewAdapter()

	gl, err := adapter.GameLog(Record{
		"player":   "Nikola Jokic",
		"team":     "DEN",
		"opp":      "LAL",
		"date":     "2025-01-12",
		"location": "home",
		"min":      "34.5",
		"pts":      28.0,
		"trb":      14.0,
		"ast":      9.0,
		"stl":      1.0,
		"blk":      1.0,
		"fg3m":     2.0,
		"tov":      3.0,
		"status":   "Final",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if gl.PlayerName != "Nikola Jokic" {
		t.Errorf("Expected player Nikola Jokic, got %s", gl.PlayerName)
	}
	if !gl.Home {
		t.Error("Expected home game")
	}
	if gl.Minutes != 34.5 {
		t.Errorf("Expected 34.5 minutes, got %f", gl.Minutes)
	}
	if gl.Points != 28 || gl.Rebounds != 14 || gl.Assists != 9 {
		t.Errorf("Unexpected box line: %d/%d/%d", gl.Points, gl.Rebounds, gl.Assists)
	}
	if gl.Threes != 2 {
		t.Errorf("Expected 2 threes, got %d", gl.Threes)
	}
	if !gl.Final {
		t.Error("Expected final game")
	}
}

// TestAdapterGameLogTeamRow tests normalization of a team-level record
func TestAdapterGameLogTeamRow(t *testing.T) {
	adapter := NewAdapter()

	gl, err := adapter.GameLog(Record{
		"team":      "Denver Nuggets",
		"opponent":  "Los Angeles Lakers",
		"game_date": "2025-01-12",
		"is_home":   true,
		"score":     118.0,
		"opp_score": 104.0,
		"is_final":  true,
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !gl.IsTeamRow() {
		t.Error("Expected team row")
	}
	if gl.TeamScore != 118 || gl.OpponentScore != 104 {
		t.Errorf("Expected 118-104, got %d-%d", gl.TeamScore, gl.OpponentScore)
	}
}

// TestAdapterGameLogMissingFields tests rejection of unusable records
func TestAdapterGameLogMissingFields(t *testing.T) {
	adapter := NewAdapter()

	if _, err := adapter.GameLog(Record{"player": "A B", "date": "2025-01-12"}); err == nil {
		t.Error("Expected error for missing team, got nil")
	}
	if _, err := adapter.GameLog(Record{"player": "A B", "team": "DEN"}); err == nil {
		t.Error("Expected error for missing date, got nil")
	}
}

// TestAdapterDefenseRankDirect tests a record carrying a 1-30 rank
func TestAdapterDefenseRankDirect(t *testing.T) {
	adapter := NewAdapter()

	dr, err := adapter.DefenseRank(Record{
		"team":     "Boston Celtics",
		"category": "pts",
		"rank":     3.0,
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if dr.StatType != models.StatPoints {
		t.Errorf("Expected stat points, got %s", dr.StatType)
	}
	if dr.Rank != 3 {
		t.Errorf("Expected rank 3, got %d", dr.Rank)
	}
}

// TestAdapterDefenseRankFromCode tests 0-100 strength code conversion
func TestAdapterDefenseRankFromCode(t *testing.T) {
	adapter := NewAdapter()

	tests := []struct {
		name     string
		code     float64
		expected int
	}{
		{"Stingiest", 100.0, 1},
		{"Median", 50.0, 16},
		{"Weakest", 1.0, 30},
		{"Unknown", 0.0, 0},
		{"Clamped above", 140.0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dr, err := adapter.DefenseRank(Record{
				"team_name": "Utah Jazz",
				"stat":      "points",
				"rating":    tt.code,
			})
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if dr.Rank != tt.expected {
				t.Errorf("Code %.0f: expected rank %d, got %d", tt.code, tt.expected, dr.Rank)
			}
		})
	}
}

// TestAdapterDefenseRankOutOfRange tests rank bounds enforcement
func TestAdapterDefenseRankOutOfRange(t *testing.T) {
	adapter := NewAdapter()

	_, err := adapter.DefenseRank(Record{
		"team": "Utah Jazz",
		"stat": "points",
		"rank": 45.0,
	})
	if err == nil {
		t.Error("Expected error for rank 45, got nil")
	}
}
