package parlay

import (
	"sort"
	"strings"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

// Duo confidence gates and the assembly boost each grade carries.
const (
	duoEliteEdge     = 4.0
	duoEliteHitRate  = 0.75
	duoStrongEdge    = 2.5
	duoStrongHitRate = 0.65

	duoEliteBoost    = 8.0
	duoStrongBoost   = 5.0
	duoModerateBoost = 3.0
)

// DuoStack groups one player's same-direction playable assessments. A
// stack marks correlated signal; the assembler still takes at most one
// of its legs.
type DuoStack struct {
	PlayerName   string
	Side         models.Side
	Legs         []*models.EdgeAssessment
	CombinedEdge float64
	AvgHitRate   float64
	Confidence   models.Confidence
	BoostWeight  float64
}

type duoKey struct {
	player string
	side   models.Side
}

// DetectDuoStacks finds players with two or more playable legs pointing
// the same direction. Results are ordered strongest first.
func DetectDuoStacks(assessments []*models.EdgeAssessment) []*DuoStack {
	groups := make(map[duoKey][]*models.EdgeAssessment)
	for _, a := range assessments {
		if !a.Playable() {
			continue
		}
		key := duoKey{player: strings.ToLower(a.PlayerName), side: a.Side}
		groups[key] = append(groups[key], a)
	}

	var stacks []*DuoStack
	for _, legs := range groups {
		if len(legs) < 2 {
			continue
		}
		sort.Slice(legs, func(i, j int) bool {
			if legs[i].AbsEdge() != legs[j].AbsEdge() {
				return legs[i].AbsEdge() > legs[j].AbsEdge()
			}
			return legs[i].StatType < legs[j].StatType
		})

		combinedEdge := 0.0
		hitRateSum := 0.0
		for _, leg := range legs {
			combinedEdge += leg.AbsEdge()
			hitRateSum += leg.HitRate
		}
		avgHitRate := hitRateSum / float64(len(legs))

		stack := &DuoStack{
			PlayerName:   legs[0].PlayerName,
			Side:         legs[0].Side,
			Legs:         legs,
			CombinedEdge: combinedEdge,
			AvgHitRate:   avgHitRate,
		}
		stack.Confidence, stack.BoostWeight = duoGrade(combinedEdge, avgHitRate)
		stacks = append(stacks, stack)
	}

	sort.Slice(stacks, func(i, j int) bool {
		if stacks[i].BoostWeight != stacks[j].BoostWeight {
			return stacks[i].BoostWeight > stacks[j].BoostWeight
		}
		if stacks[i].CombinedEdge != stacks[j].CombinedEdge {
			return stacks[i].CombinedEdge > stacks[j].CombinedEdge
		}
		return stacks[i].PlayerName < stacks[j].PlayerName
	})

	return stacks
}

// Contains reports whether an assessment belongs to this stack.
func (d *DuoStack) Contains(a *models.EdgeAssessment) bool {
	return strings.EqualFold(d.PlayerName, a.PlayerName) && d.Side == a.Side
}

func duoGrade(combinedEdge, avgHitRate float64) (models.Confidence, float64) {
	switch {
	case combinedEdge >= duoEliteEdge && avgHitRate >= duoEliteHitRate:
		return models.ConfidenceElite, duoEliteBoost
	case combinedEdge >= duoStrongEdge && avgHitRate >= duoStrongHitRate:
		return models.ConfidenceStrong, duoStrongBoost
	default:
		return models.ConfidenceModerate, duoModerateBoost
	}
}
