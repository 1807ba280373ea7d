// Package logger provides edge engine logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// EngineLogger provides dedicated logging for edge analysis operations.
type EngineLogger struct {
	*logrus.Entry
}

// NewEngineLogger creates a new engine logger.
func NewEngineLogger(baseLogger *logrus.Logger) *EngineLogger {
	return &EngineLogger{
		Entry: baseLogger.WithField("component", "engine"),
	}
}

// LogAnalysisRun logs the outcome of one analysis batch.
func (el *EngineLogger) LogAnalysisRun(sport string, linesAnalyzed, strong, lean, noBet, skipped int, durationMs float64) {
	el.WithFields(logrus.Fields{
		"sport":          sport,
		"lines_analyzed": linesAnalyzed,
		"strong":         strong,
		"lean":           lean,
		"no_bet":         noBet,
		"skipped":        skipped,
		"duration_ms":    durationMs,
	}).Info("Analysis run completed")
}

// LogAssessment logs a single scored line.
func (el *EngineLogger) LogAssessment(playerName, statType, side string, line, edge float64, tier, confidence string) {
	el.WithFields(logrus.Fields{
		"player_name": playerName,
		"stat_type":   statType,
		"side":        side,
		"line":        line,
		"edge":        edge,
		"tier":        tier,
		"confidence":  confidence,
	}).Debug("Line assessed")
}

// LogSkip logs a line the engine could not score.
func (el *EngineLogger) LogSkip(playerName, statType, reason string) {
	el.WithFields(logrus.Fields{
		"player_name": playerName,
		"stat_type":   statType,
		"reason":      reason,
	}).Debug("Line skipped")
}

// LogAnomalousEdge logs an edge large enough to indicate bad data.
func (el *EngineLogger) LogAnomalousEdge(playerName, statType, side string, line, edge float64) {
	el.WithFields(logrus.Fields{
		"player_name": playerName,
		"stat_type":   statType,
		"side":        side,
		"line":        line,
		"edge":        edge,
	}).Warn("Anomalous edge suppressed")
}

// LogDefenseGap logs a missing defensive rank during adjustment.
func (el *EngineLogger) LogDefenseGap(team, statType string) {
	el.WithFields(logrus.Fields{
		"team":      team,
		"stat_type": statType,
	}).Debug("No defensive rank, adjustment skipped")
}
