package outcome

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

var settleDate = time.Date(2025, 1, 21, 0, 0, 0, 0, time.UTC)

func matcherForTest() *Matcher {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewMatcher(logger)
}

func playerLog(name string, date time.Time, points, rebounds, assists int) *models.GameLog {
	return &models.GameLog{
		PlayerName: name,
		PlayerTeam: "Boston Celtics",
		Opponent:   "Miami Heat",
		GameDate:   date,
		Minutes:    34,
		Points:     points,
		Rebounds:   rebounds,
		Assists:    assists,
		Steals:     2,
		Blocks:     1,
		Threes:     3,
		Final:      true,
	}
}

func teamLog(team string, date time.Time, scored, allowed int) *models.GameLog {
	return &models.GameLog{
		PlayerTeam:    team,
		Opponent:      "Miami Heat",
		GameDate:      date,
		TeamScore:     scored,
		OpponentScore: allowed,
		Final:         true,
	}
}

func propLeg(player, stat string, side models.Side, line float64) models.Leg {
	return models.Leg{
		PlayerName: player,
		TeamName:   "Boston Celtics",
		StatType:   stat,
		Side:       side,
		Line:       line,
		Odds:       -110,
		BetType:    models.BetPlayerProp,
	}
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Jayson Tatum", "jayson tatum"},
		{"Jaren Jackson Jr.", "jaren jackson"},
		{"Kelly Oubre II", "kelly oubre"},
		{"P.J. Washington", "pj washington"},
		{"Shai Gilgeous-Alexander", "shai gilgeousalexander"},
		{"  Luka   Doncic  ", "luka doncic"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, normalizeName(tc.in), "normalizeName(%q)", tc.in)
	}
}

func TestPlayerMatchScore(t *testing.T) {
	cases := []struct {
		name      string
		target    string
		candidate string
		want      float64
	}{
		{"exact", "Jayson Tatum", "Jayson Tatum", matchExact},
		{"exact after normalization", "jayson tatum", "Jayson Tatum.", matchExact},
		{"suffix stripped", "Jaren Jackson Jr.", "Jaren Jackson", matchExact},
		{"substring", "Tatum", "Jayson Tatum", matchSubstring},
		{"last name and initial", "J. Tatum", "Jayson Tatum", matchLastFirstInitial},
		{"last name only", "Marcus Tatum", "Jayson Tatum", matchLastName},
		{"different last name", "Jaylen Brown", "Jayson Tatum", 0},
		{"empty candidate", "Jayson Tatum", "", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, playerMatchScore(tc.target, tc.candidate))
		})
	}
}

func TestSameTeam(t *testing.T) {
	cases := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"exact", "Boston Celtics", "Boston Celtics", true},
		{"containment", "Boston", "Boston Celtics", true},
		{"shared nickname token", "LA Lakers", "Los Angeles Lakers", true},
		{"abbreviation alias", "BOS", "Boston Celtics", true},
		{"nickname alias", "Sixers", "Philadelphia 76ers", true},
		{"crosstown rivals differ", "Los Angeles Lakers", "Los Angeles Clippers", false},
		{"unrelated", "Boston Celtics", "Miami Heat", false},
		{"empty", "", "Boston Celtics", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, sameTeam(tc.a, tc.b))
		})
	}
}

func TestFindTeamInText(t *testing.T) {
	abbr, ok := findTeamInText("Lakers -6.5")
	require.True(t, ok)
	require.Equal(t, "LAL", abbr)

	abbr, ok = findTeamInText("LA Clippers moneyline")
	require.True(t, ok)
	require.Equal(t, "LAC", abbr)

	_, ok = findTeamInText("over 220.5")
	require.False(t, ok)
}

func TestClassifyBetType(t *testing.T) {
	explicit := models.Leg{BetType: models.BetTeamSpread, PlayerName: "Jayson Tatum", StatType: "points"}
	require.Equal(t, models.BetTeamSpread, classifyBetType(explicit))

	structured := models.Leg{PlayerName: "Jayson Tatum", StatType: "points"}
	require.Equal(t, models.BetPlayerProp, classifyBetType(structured))

	cases := []struct {
		description string
		want        models.BetType
	}{
		{"Celtics moneyline", models.BetTeamMoneyline},
		{"Lakers ML", models.BetTeamMoneyline},
		{"Lakers -6.5", models.BetTeamSpread},
		{"Celtics spread", models.BetTeamSpread},
		{"Bulls over 220.5", models.BetTeamTotal},
		{"Bulls u 230.5", models.BetTeamTotal},
		{"Celtics total 215", models.BetTeamTotal},
		{"something unrecognizable", models.BetPlayerProp},
	}
	for _, tc := range cases {
		got := classifyBetType(models.Leg{Description: tc.description})
		require.Equal(t, tc.want, got, "description %q", tc.description)
	}
}

func TestResolveLegHitMissPush(t *testing.T) {
	m := matcherForTest()
	logs := []*models.GameLog{playerLog("Jayson Tatum", settleDate, 24, 8, 5)}

	out := m.ResolveLeg(propLeg("Jayson Tatum", models.StatPoints, models.SideOver, 19.5), logs, settleDate)
	require.Equal(t, models.LegHit, out.Result)
	require.Equal(t, 24.0, out.Actual)
	require.Equal(t, matchExact, out.MatchScore)

	out = m.ResolveLeg(propLeg("Jayson Tatum", models.StatPoints, models.SideUnder, 19.5), logs, settleDate)
	require.Equal(t, models.LegMiss, out.Result)

	out = m.ResolveLeg(propLeg("Jayson Tatum", models.StatPoints, models.SideOver, 24), logs, settleDate)
	require.Equal(t, models.LegPush, out.Result, "landing on the line must push for either side")

	out = m.ResolveLeg(propLeg("Jayson Tatum", models.StatPoints, models.SideUnder, 24), logs, settleDate)
	require.Equal(t, models.LegPush, out.Result)
}

func TestResolveLegComboSum(t *testing.T) {
	m := matcherForTest()
	logs := []*models.GameLog{playerLog("Jayson Tatum", settleDate, 22, 8, 7)}

	out := m.ResolveLeg(propLeg("Jayson Tatum", models.StatPtsRebsAsts, models.SideOver, 35.5), logs, settleDate)
	require.Equal(t, models.LegHit, out.Result)
	require.Equal(t, 37.0, out.Actual)

	out = m.ResolveLeg(propLeg("Jayson Tatum", models.StatStocks, models.SideOver, 2.5), logs, settleDate)
	require.Equal(t, models.LegHit, out.Result)
	require.Equal(t, 3.0, out.Actual)
}

func TestResolveLegFuzzyName(t *testing.T) {
	m := matcherForTest()
	logs := []*models.GameLog{playerLog("Jayson Tatum", settleDate, 24, 8, 5)}

	out := m.ResolveLeg(propLeg("J. Tatum", models.StatPoints, models.SideOver, 19.5), logs, settleDate)
	require.Equal(t, models.LegHit, out.Result)
	require.Equal(t, matchLastFirstInitial, out.MatchScore)
}

func TestResolveLegPrefersHigherScore(t *testing.T) {
	m := matcherForTest()
	logs := []*models.GameLog{
		playerLog("Marcus Tatum", settleDate, 40, 2, 2),
		playerLog("Jayson Tatum", settleDate.AddDate(0, 0, 1), 24, 8, 5),
	}

	out := m.ResolveLeg(propLeg("Jayson Tatum", models.StatPoints, models.SideOver, 19.5), logs, settleDate)
	require.Equal(t, matchExact, out.MatchScore, "the better name match wins over the closer date")
	require.Equal(t, 24.0, out.Actual)
}

func TestResolveLegPrefersExactDate(t *testing.T) {
	m := matcherForTest()
	logs := []*models.GameLog{
		playerLog("Jayson Tatum", settleDate.AddDate(0, 0, -1), 30, 8, 5),
		playerLog("Jayson Tatum", settleDate, 20, 8, 5),
	}

	out := m.ResolveLeg(propLeg("Jayson Tatum", models.StatPoints, models.SideOver, 25), logs, settleDate)
	require.Equal(t, models.LegMiss, out.Result)
	require.Equal(t, 20.0, out.Actual)
	require.Equal(t, "matched Jayson Tatum on 2025-01-21", out.Detail)
}

func TestResolveLegWindowBounds(t *testing.T) {
	m := matcherForTest()
	leg := propLeg("Jayson Tatum", models.StatPoints, models.SideOver, 19.5)

	dayBefore := []*models.GameLog{playerLog("Jayson Tatum", settleDate.AddDate(0, 0, -1), 24, 8, 5)}
	out := m.ResolveLeg(leg, dayBefore, settleDate)
	require.Equal(t, models.LegHit, out.Result, "the day before the target is inside the window")

	threeAfter := []*models.GameLog{playerLog("Jayson Tatum", settleDate.AddDate(0, 0, 3), 24, 8, 5)}
	out = m.ResolveLeg(leg, threeAfter, settleDate)
	require.Equal(t, models.LegHit, out.Result)

	fourAfter := []*models.GameLog{playerLog("Jayson Tatum", settleDate.AddDate(0, 0, 4), 24, 8, 5)}
	out = m.ResolveLeg(leg, fourAfter, settleDate)
	require.Equal(t, models.LegNoData, out.Result, "four days after the target is outside the window")

	twoBefore := []*models.GameLog{playerLog("Jayson Tatum", settleDate.AddDate(0, 0, -2), 24, 8, 5)}
	out = m.ResolveLeg(leg, twoBefore, settleDate)
	require.Equal(t, models.LegNoData, out.Result)
}

func TestResolveLegNoData(t *testing.T) {
	m := matcherForTest()

	out := m.ResolveLeg(propLeg("Jayson Tatum", models.StatPoints, models.SideOver, 19.5), nil, settleDate)
	require.Equal(t, models.LegNoData, out.Result)
	require.Equal(t, "no matching game log", out.Detail)

	pending := playerLog("Jayson Tatum", settleDate, 24, 8, 5)
	pending.Final = false
	out = m.ResolveLeg(propLeg("Jayson Tatum", models.StatPoints, models.SideOver, 19.5), []*models.GameLog{pending}, settleDate)
	require.Equal(t, models.LegNoData, out.Result)
	require.Equal(t, "game not final", out.Detail)

	logs := []*models.GameLog{playerLog("Jayson Tatum", settleDate, 24, 8, 5)}
	out = m.ResolveLeg(propLeg("Jayson Tatum", "fouls", models.SideOver, 2.5), logs, settleDate)
	require.Equal(t, models.LegNoData, out.Result)
	require.Contains(t, out.Detail, "unknown stat type")

	out = m.ResolveLeg(propLeg("LeBron James", models.StatPoints, models.SideOver, 19.5), logs, settleDate)
	require.Equal(t, models.LegNoData, out.Result, "a name below the accept floor never matches")
}

func TestResolveLegSpread(t *testing.T) {
	m := matcherForTest()
	logs := []*models.GameLog{teamLog("Boston Celtics", settleDate, 110, 100)}

	leg := models.Leg{
		TeamName: "Boston Celtics",
		BetType:  models.BetTeamSpread,
		Line:     -6.5,
	}
	out := m.ResolveLeg(leg, logs, settleDate)
	require.Equal(t, models.LegHit, out.Result)
	require.Equal(t, 10.0, out.Actual)

	leg.Line = -10
	out = m.ResolveLeg(leg, logs, settleDate)
	require.Equal(t, models.LegPush, out.Result, "a margin exactly on the handicap pushes")

	leg.Line = -12.5
	out = m.ResolveLeg(leg, logs, settleDate)
	require.Equal(t, models.LegMiss, out.Result)
}

func TestResolveLegMoneylineFromDescription(t *testing.T) {
	m := matcherForTest()
	logs := []*models.GameLog{
		teamLog("Boston Celtics", settleDate, 110, 100),
		teamLog("Chicago Bulls", settleDate, 95, 102),
	}

	out := m.ResolveLeg(models.Leg{Description: "Celtics ML"}, logs, settleDate)
	require.Equal(t, models.LegHit, out.Result)
	require.Equal(t, 10.0, out.Actual)

	out = m.ResolveLeg(models.Leg{Description: "Bulls moneyline"}, logs, settleDate)
	require.Equal(t, models.LegMiss, out.Result)
}

func TestResolveLegTotalFromDescription(t *testing.T) {
	m := matcherForTest()
	logs := []*models.GameLog{teamLog("Chicago Bulls", settleDate, 115, 110)}

	out := m.ResolveLeg(models.Leg{Description: "Bulls over 220.5"}, logs, settleDate)
	require.Equal(t, models.LegHit, out.Result)
	require.Equal(t, 225.0, out.Actual)

	out = m.ResolveLeg(models.Leg{Description: "Bulls u 230.5"}, logs, settleDate)
	require.Equal(t, models.LegHit, out.Result)

	out = m.ResolveLeg(models.Leg{Description: "Bulls over 225"}, logs, settleDate)
	require.Equal(t, models.LegPush, out.Result)
}

func TestResolveLegSpreadFromDescription(t *testing.T) {
	m := matcherForTest()
	logs := []*models.GameLog{teamLog("Los Angeles Lakers", settleDate, 112, 104)}

	out := m.ResolveLeg(models.Leg{Description: "Lakers -6.5"}, logs, settleDate)
	require.Equal(t, models.LegHit, out.Result)
	require.Equal(t, 8.0, out.Actual)

	out = m.ResolveLeg(models.Leg{Description: "Lakers -9.5"}, logs, settleDate)
	require.Equal(t, models.LegMiss, out.Result)
}

func TestResolveLegTeamNoData(t *testing.T) {
	m := matcherForTest()

	out := m.ResolveLeg(models.Leg{Description: "Celtics ML"}, nil, settleDate)
	require.Equal(t, models.LegNoData, out.Result)
	require.Equal(t, "no team score in window", out.Detail)

	out = m.ResolveLeg(models.Leg{Description: "somebody -3.5"}, nil, settleDate)
	require.Equal(t, models.LegNoData, out.Result)
	require.Equal(t, "no team reference in leg", out.Detail)

	pending := teamLog("Boston Celtics", settleDate, 55, 48)
	pending.Final = false
	out = m.ResolveLeg(models.Leg{Description: "Celtics ML"}, []*models.GameLog{pending}, settleDate)
	require.Equal(t, models.LegNoData, out.Result)
	require.Equal(t, "game not final", out.Detail)
}
