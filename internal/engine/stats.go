package engine

import (
	"math"
	"sort"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	return mean / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2.0
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

// weightedValue computes the weight-scaled central value of a series.
// Weights align with values by index; surplus weights are ignored.
func weightedValue(values, weights []float64) float64 {
	if len(values) == 0 || len(weights) == 0 {
		return 0
	}
	n := len(values)
	if len(weights) < n {
		n = len(weights)
	}

	weightedSum := 0.0
	weightTotal := 0.0
	for i := 0; i < n; i++ {
		weightedSum += values[i] * weights[i]
		weightTotal += weights[i]
	}
	if weightTotal == 0 {
		return 0
	}
	return weightedSum / weightTotal
}

// coefficientOfVariation is the relative spread of the series. A flat or
// zero-mean series reports 0.
func coefficientOfVariation(values []float64) float64 {
	mean := average(values)
	if mean == 0 {
		return 0
	}
	return stddev(values) / math.Abs(mean)
}

// directionalHitRate is the fraction of games strictly beyond the line
// in the bet's direction. Exact matches are pushes, not hits.
func directionalHitRate(values []float64, line float64, side models.Side) float64 {
	if len(values) == 0 {
		return 0
	}
	hits := 0
	for _, v := range values {
		if side == models.SideOver && v > line {
			hits++
		}
		if side == models.SideUnder && v < line {
			hits++
		}
	}
	return float64(hits) / float64(len(values))
}

// window returns the first n values, or everything when the series is
// shorter. Series arrive most recent first.
func window(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[:n]
}
