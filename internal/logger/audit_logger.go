// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for wager lifecycle
// events.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogWagerCreated logs an assembled wager.
func (al *AuditLogger) LogWagerCreated(wagerID, tier, engine string, legCount int, totalEdge, combinedOdds, confidenceScore float64, targetDate time.Time) {
	al.WithFields(logrus.Fields{
		"wager_id":         wagerID,
		"tier":             tier,
		"engine":           engine,
		"leg_count":        legCount,
		"total_edge":       totalEdge,
		"combined_odds":    combinedOdds,
		"confidence_score": confidenceScore,
		"target_date":      targetDate.Format("2006-01-02"),
	}).Info("Wager created")
}

// LogWagerSettled logs a settled wager with its leg breakdown.
func (al *AuditLogger) LogWagerSettled(wagerID, status string, hits, pushes, misses, noData int) {
	al.WithFields(logrus.Fields{
		"wager_id": wagerID,
		"status":   status,
		"hits":     hits,
		"pushes":   pushes,
		"misses":   misses,
		"no_data":  noData,
	}).Info("Wager settled")
}

// LogInvariantViolation logs a fatal construction failure.
func (al *AuditLogger) LogInvariantViolation(operation, detail string) {
	al.WithFields(logrus.Fields{
		"operation": operation,
		"detail":    detail,
	}).Error("Invariant violation")
}

// LogCalibrationUpdate logs a refreshed calibration slice.
func (al *AuditLogger) LogCalibrationUpdate(dimension, value string, resolved int, accuracy, factor float64, sufficient bool) {
	al.WithFields(logrus.Fields{
		"dimension":          dimension,
		"dimension_value":    value,
		"resolved":           resolved,
		"accuracy":           accuracy,
		"calibration_factor": factor,
		"sufficient":         sufficient,
	}).Info("Calibration updated")
}
