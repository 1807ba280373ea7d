package engine

import (
	"math"
	"strings"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

// GameContext carries the situational signals for a player's upcoming game.
// Zero values degrade to no-ops: an unknown defense rank applies no
// multiplier and zero expected minutes fall back to recent playing time.
type GameContext struct {
	Opponent           string
	DefenseRank        int // 1 = stingiest of 30, 0 = unknown
	Spread             float64
	TeammateOut        bool
	MinutesRestriction bool
	ExpectedMinutes    float64
	Home               bool
}

// gamePoint is one played game reduced to the inputs the projection needs.
// Series are ordered most recent first.
type gamePoint struct {
	value    float64
	minutes  float64
	opponent string
	home     bool
}

// buildSeries extracts the stat series from a game log history, dropping
// team rows and games the player sat out. The second return is false when
// the stat type is unknown.
func buildSeries(history []*models.GameLog, statType string) ([]gamePoint, bool) {
	series := make([]gamePoint, 0, len(history))
	for _, log := range history {
		if log.IsTeamRow() || !log.Played() {
			continue
		}
		v, ok := log.StatValue(statType)
		if !ok {
			return nil, false
		}
		series = append(series, gamePoint{
			value:    v,
			minutes:  log.Minutes,
			opponent: log.Opponent,
			home:     log.Home,
		})
	}
	return series, true
}

func seriesValues(series []gamePoint) []float64 {
	out := make([]float64, len(series))
	for i, p := range series {
		out[i] = p.value
	}
	return out
}

func seriesWindow(series []gamePoint, n int) []gamePoint {
	if len(series) <= n {
		return series
	}
	return series[:n]
}

// expectedMinutes resolves the upcoming workload, falling back to the
// median of recent playing time when the caller has no projection.
func expectedMinutes(series []gamePoint, ctx GameContext) float64 {
	if ctx.ExpectedMinutes > 0 {
		return ctx.ExpectedMinutes
	}
	recent := seriesWindow(series, minutesWindow)
	mins := make([]float64, len(recent))
	for i, p := range recent {
		mins[i] = p.minutes
	}
	return median(mins)
}

// project computes the five weighted sub-projections and blends them into
// the true median. A sub-projection with no input window contributes
// nothing and its weight is spread over the rest. The matchup count is
// returned so assessments can report how much opponent history backed it.
func project(series []gamePoint, ctx GameContext) (models.Projection, float64, int) {
	proj := models.Projection{}
	expMin := expectedMinutes(series, ctx)

	recent := seriesValues(seriesWindow(series, recentFormWindow))
	proj.RecentForm = weightedValue(recent, recencyWeights)

	// Matchup median over games against the upcoming opponent. With no
	// matchup history the recent form stands in; either way the value is
	// defense-adjusted.
	matchupVals := make([]float64, 0, len(series))
	for _, p := range series {
		if ctx.Opponent != "" && strings.EqualFold(p.opponent, ctx.Opponent) {
			matchupVals = append(matchupVals, p.value)
		}
	}
	matchupGames := len(matchupVals)
	if matchupGames >= matchupMinGames {
		proj.Matchup = median(matchupVals)
	} else {
		proj.Matchup = proj.RecentForm
	}
	proj.Matchup *= defenseMultiplier(ctx.DefenseRank)

	// Minutes-log-normalized and per-minute production medians over the
	// same window. The log factor rescales each game by how far the
	// expected workload sits from the actual one; the per-minute median
	// reprices raw rate at the expected workload.
	minuteWindow := seriesWindow(series, minutesWindow)
	minutesAdj := make([]float64, 0, len(minuteWindow))
	perMinute := make([]float64, 0, len(minuteWindow))
	for _, p := range minuteWindow {
		minutesAdj = append(minutesAdj, p.value*math.Log2(1+expMin/p.minutes))
		perMinute = append(perMinute, p.value/p.minutes)
	}
	proj.MinutesAdj = median(minutesAdj)
	proj.PerMinute = median(perMinute) * expMin

	// Home/away split keyed on the upcoming venue.
	splitVals := make([]float64, 0, len(series))
	for _, p := range series {
		if p.home == ctx.Home {
			splitVals = append(splitVals, p.value)
		}
	}
	if len(splitVals) > 0 {
		proj.HomeAway = median(splitVals)
	}

	parts := []struct {
		value   float64
		weight  float64
		present bool
	}{
		{proj.RecentForm, weightRecentForm, len(recent) > 0},
		{proj.Matchup, weightMatchup, len(recent) > 0},
		{proj.MinutesAdj, weightMinutesAdj, len(minutesAdj) > 0},
		{proj.PerMinute, weightPerMinute, len(perMinute) > 0},
		{proj.HomeAway, weightHomeAway, len(splitVals) > 0},
	}
	weightedSum := 0.0
	weightTotal := 0.0
	for _, part := range parts {
		if !part.present {
			continue
		}
		weightedSum += part.value * part.weight
		weightTotal += part.weight
	}
	if weightTotal == 0 {
		return proj, 0, matchupGames
	}

	return proj, weightedSum / weightTotal, matchupGames
}

// defenseMultiplier converts an opponent rank into a matchup multiplier.
// Rank 0 means the rank is unknown; no adjustment applies.
func defenseMultiplier(rank int) float64 {
	switch {
	case rank == 0:
		return 1.0
	case rank <= defenseTop5Rank:
		return defenseTop5Mult
	case rank <= defenseTop10Rank:
		return defenseTop10Mult
	case rank >= defenseBottom5Rank:
		return defenseBottom5Mult
	case rank >= defenseBottom10:
		return defenseBottom10Mult
	default:
		return 1.0
	}
}

// scalarAdjustments applies the situational add-ons after the defense
// multiplier. The spread check uses magnitude; a projected blowout cuts
// minutes for either side's starters.
func scalarAdjustments(value float64, ctx GameContext) float64 {
	if math.Abs(ctx.Spread) >= blowoutSpread {
		value += blowoutPenalty
	}
	if ctx.TeammateOut {
		value += teammateOutBoost
	}
	if ctx.MinutesRestriction {
		value += minutesRestrictionPenalty
	}
	return value
}
