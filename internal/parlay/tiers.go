package parlay

import "github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"

// TierConfig carries the gates one risk tier enforces on every leg and
// on the finished wager.
type TierConfig struct {
	Tier          models.RiskTier
	MinHitRate    float64
	MaxVolatility float64
	MinEliteLegs  int
	MinEdge       float64
}

var tierConfigs = []TierConfig{
	{Tier: models.RiskConservative, MinHitRate: 0.70, MaxVolatility: 0.30, MinEliteLegs: 2},
	{Tier: models.RiskBalanced, MinHitRate: 0.62, MaxVolatility: 0.40, MinEliteLegs: 1},
	{Tier: models.RiskValue, MinHitRate: 0.55, MaxVolatility: 0.55, MinEdge: 1.0},
}

// TierConfigs returns every risk tier the assembler builds for, safest
// first.
func TierConfigs() []TierConfig {
	out := make([]TierConfig, len(tierConfigs))
	copy(out, tierConfigs)
	return out
}

// TierConfigFor looks up one tier by name.
func TierConfigFor(tier models.RiskTier) (TierConfig, bool) {
	for _, cfg := range tierConfigs {
		if cfg.Tier == tier {
			return cfg, true
		}
	}
	return TierConfig{}, false
}

// Admits reports whether a single leg passes the tier's gates.
func (t TierConfig) Admits(a *models.EdgeAssessment) bool {
	if a.HitRate < t.MinHitRate {
		return false
	}
	if a.Volatility > t.MaxVolatility {
		return false
	}
	return a.AbsEdge() >= t.MinEdge
}
