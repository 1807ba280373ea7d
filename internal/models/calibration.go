package models

import "time"

// Calibration dimensions
const (
	DimensionEngine     = "engine"
	DimensionPropType   = "prop_type"
	DimensionProbBucket = "prob_bucket"
)

// Probability buckets for the prob_bucket dimension
const (
	Bucket55to60 = "55-60"
	Bucket60to70 = "60-70"
	Bucket70to80 = "70-80"
	Bucket80plus = "80+"
)

// MinCalibrationSamples is the resolved-leg count below which a slice
// cannot support a calibration conclusion.
const MinCalibrationSamples = 10

// ProbBucket maps a predicted probability to its bucket label.
// Probabilities below 0.55 fall outside every bucket.
func ProbBucket(p float64) string {
	switch {
	case p >= 0.80:
		return Bucket80plus
	case p >= 0.70:
		return Bucket70to80
	case p >= 0.60:
		return Bucket60to70
	case p >= 0.55:
		return Bucket55to60
	default:
		return ""
	}
}

// CalibrationMetric represents accuracy-vs-predicted aggregates for one
// slice of settled legs. Pushes count toward accuracy, not against it.
type CalibrationMetric struct {
	Dimension         string    `db:"dimension" json:"dimension" validate:"required,oneof=engine prop_type prob_bucket"`
	DimensionValue    string    `db:"dimension_value" json:"dimension_value" validate:"required"`
	Resolved          int       `db:"resolved" json:"resolved"`
	Hits              int       `db:"hits" json:"hits"`
	Pushes            int       `db:"pushes" json:"pushes"`
	Misses            int       `db:"misses" json:"misses"`
	Accuracy          float64   `db:"accuracy" json:"accuracy"`
	MeanPredicted     float64   `db:"mean_predicted" json:"mean_predicted"`
	CalibrationFactor float64   `db:"calibration_factor" json:"calibration_factor"`
	Sufficient        bool      `db:"sufficient" json:"sufficient"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// Overconfident reports whether predictions in this slice ran ahead of
// observed accuracy. Meaningless when the sample is insufficient.
func (c *CalibrationMetric) Overconfident() bool {
	return c.Sufficient && c.CalibrationFactor < 1.0
}
