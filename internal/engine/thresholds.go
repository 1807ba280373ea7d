package engine

import "github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"

// StatThresholds are the per-stat gates for the recommendation ladder.
type StatThresholds struct {
	Lean          float64 // minimum |edge| for LEAN
	Strong        float64 // minimum |edge| for STRONG
	VolatilityCap float64 // maximum volatility for STRONG
}

// statThresholds is fixed per stat type. A stat missing from this table
// is not a market the engine prices; those lines skip as unknown props.
var statThresholds = map[string]StatThresholds{
	models.StatPoints:      {Lean: 1.5, Strong: 3.0, VolatilityCap: 0.40},
	models.StatRebounds:    {Lean: 1.0, Strong: 2.0, VolatilityCap: 0.45},
	models.StatAssists:     {Lean: 1.0, Strong: 2.0, VolatilityCap: 0.45},
	models.StatThrees:      {Lean: 0.5, Strong: 1.0, VolatilityCap: 0.55},
	models.StatSteals:      {Lean: 0.5, Strong: 1.0, VolatilityCap: 0.60},
	models.StatBlocks:      {Lean: 0.5, Strong: 1.0, VolatilityCap: 0.60},
	models.StatPtsRebsAsts: {Lean: 2.5, Strong: 4.5, VolatilityCap: 0.35},
	models.StatPtsRebs:     {Lean: 2.0, Strong: 3.5, VolatilityCap: 0.38},
	models.StatPtsAsts:     {Lean: 2.0, Strong: 3.5, VolatilityCap: 0.38},
	models.StatRebsAsts:    {Lean: 1.5, Strong: 3.0, VolatilityCap: 0.42},
}

// ThresholdsFor looks up the gates for a stat type.
func ThresholdsFor(statType string) (StatThresholds, bool) {
	t, ok := statThresholds[statType]
	return t, ok
}

// Sub-projection weights. They sum to 1; when a sub-projection has no
// input window its weight is redistributed across the others.
const (
	weightRecentForm = 0.30
	weightMatchup    = 0.20
	weightMinutesAdj = 0.15
	weightPerMinute  = 0.20
	weightHomeAway   = 0.15
)

// recencyWeights scale the last 7 games, newest first.
var recencyWeights = []float64{10, 5, 3, 2, 2, 1, 1}

// Analysis windows over the most-recent-first series.
const (
	recentFormWindow  = 7
	minutesWindow     = 10
	volatilityWindow  = 10
	recentBlendWindow = 5
	matchupMinGames   = 1
)

// Defense multipliers by opponent rank (1 = stingiest of 30).
const (
	defenseTop5Rank    = 5
	defenseTop10Rank   = 10
	defenseBottom5Rank = 26
	defenseBottom10    = 21

	defenseTop5Mult     = 0.92
	defenseTop10Mult    = 0.96
	defenseBottom5Mult  = 1.08
	defenseBottom10Mult = 1.04
)

// Scalar adjustments applied after the defense multiplier.
const (
	blowoutSpread             = 10.0
	blowoutPenalty            = -1.0
	teammateOutBoost          = 1.0
	minutesRestrictionPenalty = -1.5
)

// Edge blend and dampening.
const (
	edgeBlendAdjusted = 0.8
	edgeBlendRecent   = 0.2
	dampCVThreshold   = 0.35
	dampFactor        = 0.75
)

// Recommendation ladder gates. Histories under minHistoryGames skip
// entirely; histories under minGamesAnalyzed produce a NO_BET row.
const (
	minHistoryGames   = 3
	minGamesAnalyzed  = 6
	anomalousEdge     = 8.0
	leanHitRate       = 0.60
	strongHitRate     = 0.70
	strongMinGames    = 7
	strongMaxStdDev   = 3.0
	trapVolatility    = 0.30
	trapEdge          = 5.0
	seasonStdDevLimit = 3.5
)

// Confidence gates.
const (
	eliteHitRate   = 0.80
	eliteMinGames  = 8
	eliteMaxVol    = 0.25
	confStrongRate = 0.70
	confStrongVol  = 0.35
)
