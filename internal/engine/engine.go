package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	applogger "github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/logger"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

// DefaultEngineName tags assessments produced by the baseline analysis
// configuration. Variant labels are applied downstream at parlay assembly.
const DefaultEngineName = "control"

// Engine scores prop lines against player game log history.
type Engine struct {
	log *applogger.EngineLogger
}

// New creates an edge engine
func New(logger *logrus.Logger) *Engine {
	return &Engine{log: applogger.NewEngineLogger(logger)}
}

// Assess scores one line against the player's most-recent-first game log
// series. Lines it cannot price return a skippable error: unknown stat
// types, non-positive lines, and players with under three usable games.
// Identical inputs always produce identical scored fields.
func (e *Engine) Assess(line *models.PropLine, history []*models.GameLog, ctx GameContext) (*models.EdgeAssessment, error) {
	if line.Line <= 0 {
		return nil, models.NewValidationError("line", models.SkipMissingLine)
	}
	thresholds, ok := ThresholdsFor(line.StatType)
	if !ok {
		return nil, models.NewValidationError("stat_type", models.SkipUnknownProp)
	}

	series, ok := buildSeries(history, line.StatType)
	if !ok {
		return nil, models.NewValidationError("stat_type", models.SkipUnknownProp)
	}
	if len(series) < minHistoryGames {
		return nil, models.NewDataUnavailableError("history", line.PlayerName)
	}

	values := seriesValues(series)
	proj, trueMedian, matchupGames := project(series, ctx)

	if ctx.DefenseRank == 0 {
		e.log.LogDefenseGap(ctx.Opponent, line.StatType)
	}
	adjusted := trueMedian * defenseMultiplier(ctx.DefenseRank)
	adjusted = scalarAdjustments(adjusted, ctx)

	recentMedian := median(window(values, recentBlendWindow))
	edge := edgeBlendAdjusted*(adjusted-line.Line) + edgeBlendRecent*(recentMedian-line.Line)

	volatility := coefficientOfVariation(window(values, volatilityWindow))
	if volatility > dampCVThreshold {
		edge *= dampFactor
	}

	assessment := &models.EdgeAssessment{
		ID:             uuid.New(),
		PlayerName:     line.PlayerName,
		TeamName:       line.TeamName,
		Sport:          line.Sport,
		StatType:       line.StatType,
		Side:           line.Side,
		Line:           line.Line,
		Odds:           line.Odds,
		Source:         line.Source,
		EventID:        line.EventID,
		GameDate:       line.GameDate,
		Projection:     proj,
		TrueMedian:     trueMedian,
		AdjustedMedian: adjusted,
		Edge:           edge,
		HitRate:        directionalHitRate(window(values, volatilityWindow), line.Line, line.Side),
		Volatility:     volatility,
		StdDev:         stddev(window(values, volatilityWindow)),
		SeasonStdDev:   stddev(values),
		GamesAnalyzed:  len(series),
		MatchupGames:   matchupGames,
		DefenseRank:    ctx.DefenseRank,
		Engine:         DefaultEngineName,
		AnalyzedAt:     time.Now().UTC(),
	}
	assessment.Tier = recommend(assessment, thresholds)
	assessment.Confidence = confidence(assessment)

	if assessment.AbsEdge() >= anomalousEdge {
		e.log.LogAnomalousEdge(line.PlayerName, line.StatType, string(line.Side), line.Line, assessment.Edge)
	}
	e.log.LogAssessment(line.PlayerName, line.StatType, string(line.Side), line.Line, assessment.Edge,
		string(assessment.Tier), string(assessment.Confidence))

	return assessment, nil
}
