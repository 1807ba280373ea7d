package engine

import "github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"

// recommend walks the tier ladder for a scored assessment. Samples that
// are too small and edges too wide to trust both land on NO_BET; a wide
// edge usually means a stale line or missing context, not free money.
func recommend(a *models.EdgeAssessment, t StatThresholds) models.Tier {
	absEdge := a.AbsEdge()

	if a.GamesAnalyzed < minGamesAnalyzed {
		return models.TierNoBet
	}
	if absEdge >= anomalousEdge {
		return models.TierNoBet
	}
	// The recommendation follows the edge's sign; a line whose offered
	// side points the other way is not actionable.
	if a.Side == models.SideOver && a.Edge <= 0 {
		return models.TierNoBet
	}
	if a.Side == models.SideUnder && a.Edge >= 0 {
		return models.TierNoBet
	}
	if absEdge < t.Lean || a.HitRate < leanHitRate {
		return models.TierNoBet
	}

	tier := models.TierLean
	if absEdge >= t.Strong &&
		a.HitRate >= strongHitRate &&
		a.StdDev <= strongMaxStdDev &&
		a.GamesAnalyzed >= strongMinGames &&
		a.Volatility <= t.VolatilityCap {
		tier = models.TierStrong
	}

	if tier == models.TierStrong && downgradeStrong(a) {
		tier = models.TierLean
	}

	return tier
}

// downgradeStrong flags trap lines: a wide edge riding a volatile series,
// or a season-long spread too loose for the strong tier. The promotion
// gate reads the 10-game deviation; this check reads the full series.
func downgradeStrong(a *models.EdgeAssessment) bool {
	if a.Volatility > trapVolatility && a.AbsEdge() >= trapEdge {
		return true
	}
	return a.SeasonStdDev >= seasonStdDevLimit
}

// confidence buckets the stability of the signal, independent of tier.
func confidence(a *models.EdgeAssessment) models.Confidence {
	if a.HitRate >= eliteHitRate && a.GamesAnalyzed >= eliteMinGames && a.Volatility <= eliteMaxVol {
		return models.ConfidenceElite
	}
	if a.HitRate >= confStrongRate && a.Volatility <= confStrongVol {
		return models.ConfidenceStrong
	}
	return models.ConfidenceModerate
}
