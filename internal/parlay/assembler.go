package parlay

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/config"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/odds"
)

// Confidence score terms: legs weighted by confidence grade, plus flat
// boosts for duo coverage and favorable matchups.
const (
	confWeightElite    = 1.2
	confWeightStrong   = 1.0
	confWeightModerate = 0.8

	duoCountBonus          = 3.0
	favorableDefenseWeight = 10.0
)

// Assembler builds tiered wagers from playable assessments.
type Assembler struct {
	cfg    config.ParlayConfig
	logger *logrus.Logger
}

// NewAssembler creates a parlay assembler
func NewAssembler(cfg config.ParlayConfig, logger *logrus.Logger) *Assembler {
	return &Assembler{cfg: cfg, logger: logger}
}

// Assemble builds one wager for a risk tier under an engine variant.
// Duo stacks are placed first, one leg each, then the remaining slots
// fill from the score-ranked candidate list. When the pool cannot fill
// the leg quota within the tier's gates the result is
// models.ErrNoCandidates, never a short wager.
func (a *Assembler) Assemble(assessments []*models.EdgeAssessment, duos []*DuoStack, tier TierConfig, variant config.EngineConfig, targetDate time.Time) (*models.Wager, error) {
	candidates := a.rankCandidates(assessments, duos, variant)

	sel := newSelection(a.cfg)
	for _, duo := range duos {
		if sel.full() {
			break
		}
		for _, c := range candidates {
			if c.duo != duo {
				continue
			}
			if sel.add(c, tier) {
				break
			}
		}
	}
	for _, c := range candidates {
		if sel.full() {
			break
		}
		sel.add(c, tier)
	}

	if !sel.full() || sel.statTypes() < a.cfg.MinStatTypes || sel.eliteLegs() < tier.MinEliteLegs {
		a.logger.WithFields(logrus.Fields{
			"tier":       tier.Tier,
			"engine":     variant.Name,
			"legs":       len(sel.picked),
			"stat_types": sel.statTypes(),
			"elite_legs": sel.eliteLegs(),
		}).Info("No wager for tier")
		return nil, fmt.Errorf("%s/%s: %w", tier.Tier, variant.Name, models.ErrNoCandidates)
	}

	return a.buildWager(sel.picked, tier, variant, targetDate)
}

// rankCandidates dedupes, attaches duo membership and sorts by score.
// Ties break on edge, then name, so runs are reproducible.
func (a *Assembler) rankCandidates(assessments []*models.EdgeAssessment, duos []*DuoStack, variant config.EngineConfig) []*candidate {
	deduped := a.dedupe(assessments)

	candidates := make([]*candidate, 0, len(deduped))
	for _, assessment := range deduped {
		c := &candidate{assessment: assessment}
		for _, duo := range duos {
			if duo.Contains(assessment) {
				c.duo = duo
				break
			}
		}
		c.score = candidateScore(assessment, c.duo, variant.EdgeScale)
		candidates = append(candidates, c)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		ai, aj := candidates[i].assessment, candidates[j].assessment
		if ai.AbsEdge() != aj.AbsEdge() {
			return ai.AbsEdge() > aj.AbsEdge()
		}
		if ai.PlayerName != aj.PlayerName {
			return ai.PlayerName < aj.PlayerName
		}
		return ai.StatType < aj.StatType
	})

	return candidates
}

// dedupe keeps one playable assessment per player and stat, preferring
// the more liquid line source when books disagree on the same market.
func (a *Assembler) dedupe(assessments []*models.EdgeAssessment) []*models.EdgeAssessment {
	type marketKey struct {
		player string
		stat   string
	}
	best := make(map[marketKey]*models.EdgeAssessment)
	var order []marketKey
	for _, assessment := range assessments {
		if !assessment.Playable() {
			continue
		}
		key := marketKey{player: strings.ToLower(assessment.PlayerName), stat: assessment.StatType}
		existing, ok := best[key]
		if !ok {
			best[key] = assessment
			order = append(order, key)
			continue
		}
		if a.preferred(assessment, existing) {
			best[key] = assessment
		}
	}

	out := make([]*models.EdgeAssessment, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

func (a *Assembler) preferred(challenger, incumbent *models.EdgeAssessment) bool {
	cr := sourceRank(challenger.Source, a.cfg.SourcePriority)
	ir := sourceRank(incumbent.Source, a.cfg.SourcePriority)
	if cr != ir {
		return cr < ir
	}
	return challenger.AbsEdge() > incumbent.AbsEdge()
}

func sourceRank(source string, priority []string) int {
	for i, name := range priority {
		if strings.EqualFold(name, source) {
			return i
		}
	}
	return len(priority)
}

// selection accumulates legs under the structural constraints: one leg
// per player, a per-stat-type cap, and the tier's per-leg gates.
type selection struct {
	cfg      config.ParlayConfig
	picked   []*candidate
	players  map[string]struct{}
	statUses map[string]int
}

func newSelection(cfg config.ParlayConfig) *selection {
	return &selection{
		cfg:      cfg,
		players:  make(map[string]struct{}),
		statUses: make(map[string]int),
	}
}

func (s *selection) full() bool {
	return len(s.picked) >= s.cfg.MaxLegs
}

func (s *selection) add(c *candidate, tier TierConfig) bool {
	if s.full() {
		return false
	}
	a := c.assessment
	player := strings.ToLower(a.PlayerName)
	if _, ok := s.players[player]; ok {
		return false
	}
	if s.statUses[a.StatType] >= s.cfg.MaxPerStatType {
		return false
	}
	if !tier.Admits(a) {
		return false
	}

	s.players[player] = struct{}{}
	s.statUses[a.StatType]++
	s.picked = append(s.picked, c)
	return true
}

func (s *selection) statTypes() int {
	return len(s.statUses)
}

func (s *selection) eliteLegs() int {
	count := 0
	for _, c := range s.picked {
		if c.assessment.Confidence == models.ConfidenceElite {
			count++
		}
	}
	return count
}

// buildWager validates the selected legs and wraps them with aggregate
// metrics. A duplicate player here is a logic defect upstream and fails
// construction loudly.
func (a *Assembler) buildWager(picked []*candidate, tier TierConfig, variant config.EngineConfig, targetDate time.Time) (*models.Wager, error) {
	players := make(map[string]struct{}, len(picked))
	for _, c := range picked {
		player := strings.ToLower(c.assessment.PlayerName)
		if _, ok := players[player]; ok {
			return nil, models.NewInvariantViolation("duplicate player %q in wager", c.assessment.PlayerName)
		}
		players[player] = struct{}{}
	}

	legs := make([]models.Leg, 0, len(picked))
	americanOdds := make([]int, 0, len(picked))
	totalEdge := 0.0
	hitRateSum := 0.0
	weightedHitRate := 0.0
	weightTotal := 0.0
	favorable := 0
	duosUsed := make(map[*DuoStack]struct{})

	for _, c := range picked {
		assessment := c.assessment
		legs = append(legs, models.Leg{
			PlayerName:    assessment.PlayerName,
			TeamName:      assessment.TeamName,
			StatType:      assessment.StatType,
			Side:          assessment.Side,
			Line:          assessment.Line,
			Odds:          assessment.Odds,
			BetType:       models.BetPlayerProp,
			PredictedProb: assessment.HitRate,
			Edge:          assessment.Edge,
			Engine:        variant.Name,
			Description:   legDescription(assessment),
		})
		americanOdds = append(americanOdds, assessment.Odds)
		totalEdge += assessment.AbsEdge()
		hitRateSum += assessment.HitRate

		weight := confidenceWeight(assessment.Confidence)
		weightedHitRate += weight * assessment.HitRate
		weightTotal += weight

		if assessment.FavorableDefense() {
			favorable++
		}
		if c.duo != nil {
			duosUsed[c.duo] = struct{}{}
		}
	}

	legCount := float64(len(legs))
	confidenceScore := (weightedHitRate/weightTotal)*100 +
		duoCountBonus*float64(len(duosUsed)) +
		favorableDefenseWeight*float64(favorable)/legCount

	wager := &models.Wager{
		ID:              uuid.New(),
		Tier:            tier.Tier,
		Engine:          variant.Name,
		Legs:            legs,
		LegCount:        len(legs),
		TotalEdge:       totalEdge,
		CombinedHitRate: hitRateSum / legCount,
		ConfidenceScore: clamp(confidenceScore, 0, 100),
		CombinedOdds:    combinedDecimalOdds(americanOdds),
		TargetDate:      targetDate,
		Status:          models.WagerPending,
		CreatedAt:       time.Now().UTC(),
	}

	a.logger.WithFields(logrus.Fields{
		"tier":             wager.Tier,
		"engine":           wager.Engine,
		"total_edge":       wager.TotalEdge,
		"confidence_score": wager.ConfidenceScore,
		"combined_odds":    wager.CombinedOdds,
	}).Info("Assembled wager")

	return wager, nil
}

// combinedDecimalOdds prices the parlay as a decimal multiplier. Legs
// without stored odds make the product meaningless; the wager carries 0.
func combinedDecimalOdds(americanOdds []int) float64 {
	product, err := odds.ParlayDecimal(americanOdds)
	if err != nil {
		return 0
	}
	return product.InexactFloat64()
}

func legDescription(a *models.EdgeAssessment) string {
	return fmt.Sprintf("%s %s %.1f %s", a.PlayerName, a.Side, a.Line, a.StatType)
}

func confidenceWeight(c models.Confidence) float64 {
	switch c {
	case models.ConfidenceElite:
		return confWeightElite
	case models.ConfidenceStrong:
		return confWeightStrong
	default:
		return confWeightModerate
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
