package settlement

import (
	"sort"
	"time"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

type calibrationKey struct {
	dimension string
	value     string
}

type calibrationAccum struct {
	resolved  int
	hits      int
	pushes    int
	misses    int
	predicted float64
}

// Rollup aggregates resolved leg outcomes into calibration slices along
// the engine, prop type and probability bucket dimensions. Unresolved
// legs are excluded everywhere; legs predicted below the lowest bucket
// are excluded from the bucket dimension only.
func Rollup(outcomes []models.LegOutcome, now time.Time) []models.CalibrationMetric {
	accums := make(map[calibrationKey]*calibrationAccum)
	for _, out := range outcomes {
		if !out.Result.Resolved() {
			continue
		}
		for _, key := range sliceKeys(out.Leg) {
			acc := accums[key]
			if acc == nil {
				acc = &calibrationAccum{}
				accums[key] = acc
			}
			acc.resolved++
			acc.predicted += out.Leg.PredictedProb
			switch out.Result {
			case models.LegHit:
				acc.hits++
			case models.LegPush:
				acc.pushes++
			default:
				acc.misses++
			}
		}
	}

	metrics := make([]models.CalibrationMetric, 0, len(accums))
	for key, acc := range accums {
		mean := acc.predicted / float64(acc.resolved)
		accuracy := float64(acc.hits+acc.pushes) / float64(acc.resolved)
		factor := 0.0
		if mean > 0 {
			factor = accuracy / mean
		}
		metrics = append(metrics, models.CalibrationMetric{
			Dimension:         key.dimension,
			DimensionValue:    key.value,
			Resolved:          acc.resolved,
			Hits:              acc.hits,
			Pushes:            acc.pushes,
			Misses:            acc.misses,
			Accuracy:          accuracy,
			MeanPredicted:     mean,
			CalibrationFactor: factor,
			Sufficient:        acc.resolved >= models.MinCalibrationSamples,
			UpdatedAt:         now,
		})
	}

	sort.Slice(metrics, func(i, j int) bool {
		if metrics[i].Dimension != metrics[j].Dimension {
			return metrics[i].Dimension < metrics[j].Dimension
		}
		return metrics[i].DimensionValue < metrics[j].DimensionValue
	})
	return metrics
}

// Merge folds a freshly rolled-up delta into the stored aggregate for
// the same slice. Counts add; accuracy, mean and factor recompute from
// the combined totals. A zero-value existing metric yields the delta.
func Merge(existing, delta models.CalibrationMetric) models.CalibrationMetric {
	merged := models.CalibrationMetric{
		Dimension:      delta.Dimension,
		DimensionValue: delta.DimensionValue,
		Resolved:       existing.Resolved + delta.Resolved,
		Hits:           existing.Hits + delta.Hits,
		Pushes:         existing.Pushes + delta.Pushes,
		Misses:         existing.Misses + delta.Misses,
		UpdatedAt:      delta.UpdatedAt,
	}
	if merged.Resolved == 0 {
		return merged
	}

	predicted := existing.MeanPredicted*float64(existing.Resolved) +
		delta.MeanPredicted*float64(delta.Resolved)
	merged.MeanPredicted = predicted / float64(merged.Resolved)
	merged.Accuracy = float64(merged.Hits+merged.Pushes) / float64(merged.Resolved)
	if merged.MeanPredicted > 0 {
		merged.CalibrationFactor = merged.Accuracy / merged.MeanPredicted
	}
	merged.Sufficient = merged.Resolved >= models.MinCalibrationSamples
	return merged
}

func sliceKeys(leg models.Leg) []calibrationKey {
	keys := make([]calibrationKey, 0, 3)
	if leg.Engine != "" {
		keys = append(keys, calibrationKey{models.DimensionEngine, leg.Engine})
	}
	if leg.StatType != "" {
		keys = append(keys, calibrationKey{models.DimensionPropType, leg.StatType})
	}
	if bucket := models.ProbBucket(leg.PredictedProb); bucket != "" {
		keys = append(keys, calibrationKey{models.DimensionProbBucket, bucket})
	}
	return keys
}
