// Package settlement turns reconciled leg outcomes into wager statuses
// and calibration aggregates.
package settlement

import (
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

// SettleWager derives a wager status from its leg outcomes. A single
// miss sinks the parlay regardless of unresolved legs; a wager with no
// resolved legs at all reports no_data. When every leg resolved
// favorably the wager is won. A favorable-so-far wager with unresolved
// legs stays pending unless partial reporting is enabled.
func SettleWager(outcomes []models.LegOutcome, reportPartial bool) models.WagerStatus {
	if len(outcomes) == 0 {
		return models.WagerNoData
	}

	resolved := 0
	misses := 0
	for _, out := range outcomes {
		if out.Result.Resolved() {
			resolved++
		}
		if out.Result == models.LegMiss {
			misses++
		}
	}

	switch {
	case misses > 0:
		return models.WagerLost
	case resolved == 0:
		return models.WagerNoData
	case resolved == len(outcomes):
		return models.WagerWon
	case reportPartial:
		return models.WagerPartial
	default:
		return models.WagerPending
	}
}

// Terminal reports whether a status ends settlement retries. Pending and
// partial wagers are revisited on later runs; no_data finalizes only
// once the settlement window has closed, which the caller decides.
func Terminal(status models.WagerStatus) bool {
	return status == models.WagerWon || status == models.WagerLost
}
