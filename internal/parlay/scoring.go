package parlay

import "github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"

// The base term is scaled so the flat bonuses operate on a comparable
// magnitude.
const (
	baseScoreScale        = 10.0
	defenseAlignBonus     = 5.0
	eliteConfidenceBonus  = 10.0
	strongConfidenceBonus = 5.0
)

// candidate pairs an assessment with its selection score and the duo
// stack it belongs to, if any.
type candidate struct {
	assessment *models.EdgeAssessment
	duo        *DuoStack
	score      float64
}

// candidateScore ranks a leg for selection. The edge scale comes from
// the engine variant; the control variant runs at 1.0.
func candidateScore(a *models.EdgeAssessment, duo *DuoStack, edgeScale float64) float64 {
	score := a.AbsEdge() * edgeScale * a.HitRate * (1 - a.Volatility/2) * baseScoreScale
	score += defenseAlignment(a)

	switch a.Confidence {
	case models.ConfidenceElite:
		score += eliteConfidenceBonus
	case models.ConfidenceStrong:
		score += strongConfidenceBonus
	}

	if duo != nil {
		score += duo.BoostWeight
	}

	return score
}

// defenseAlignment rewards legs pointed the same way as the opponent's
// defensive rank and penalizes legs fighting it. Unknown and mid-pack
// ranks are neutral.
func defenseAlignment(a *models.EdgeAssessment) float64 {
	if a.DefenseRank == 0 {
		return 0
	}
	if a.FavorableDefense() {
		return defenseAlignBonus
	}
	if a.Side == models.SideOver && a.DefenseRank <= 10 {
		return -defenseAlignBonus
	}
	if a.Side == models.SideUnder && a.DefenseRank >= 21 {
		return -defenseAlignBonus
	}
	return 0
}
