package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/config"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/feeds"
	applogger "github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/logger"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/outcome"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/repository"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/settlement"
)

// SettlementService reconciles pending wagers against final box scores
// and keeps the calibration aggregates current.
type SettlementService struct {
	scoreFeed feeds.ScoreFeed
	wagerRepo repository.WagerRepository
	logRepo   repository.GameLogRepository
	calibRepo repository.CalibrationRepository
	matcher   *outcome.Matcher
	cfg       config.SettlementConfig
	sport     string
	logger    *logrus.Logger
	audit     *applogger.AuditLogger
}

func NewSettlementService(
	scoreFeed feeds.ScoreFeed,
	wagerRepo repository.WagerRepository,
	logRepo repository.GameLogRepository,
	calibRepo repository.CalibrationRepository,
	matcher *outcome.Matcher,
	cfg config.SettlementConfig,
	sport string,
	logger *logrus.Logger,
) *SettlementService {
	return &SettlementService{
		scoreFeed: scoreFeed,
		wagerRepo: wagerRepo,
		logRepo:   logRepo,
		calibRepo: calibRepo,
		matcher:   matcher,
		cfg:       cfg,
		sport:     sport,
		logger:    logger,
		audit:     applogger.NewAuditLogger(logger),
	}
}

// Settle reconciles every unsettled wager inside the lookback window.
// Won and lost wagers finalize immediately; a wager with no data
// finalizes only once its search window has closed. Legs settled this
// run feed the calibration aggregates exactly once.
func (s *SettlementService) Settle(ctx context.Context, now time.Time) (*models.RunReport, error) {
	report := models.NewRunReport("settle")
	defer report.Finish()

	since := now.AddDate(0, 0, -s.cfg.LookbackDays)
	pending, err := s.wagerRepo.GetPendingSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("loading pending wagers: %w", err)
	}
	if len(pending) == 0 {
		s.logger.Info("No pending wagers to settle")
		return report, nil
	}

	logs, err := s.refreshScores(ctx, pending)
	if err != nil {
		return nil, err
	}

	var settledLegs []models.LegOutcome
	for _, wager := range pending {
		outcomes := make([]models.LegOutcome, 0, len(wager.Legs))
		for _, leg := range wager.Legs {
			outcomes = append(outcomes, s.matcher.ResolveLeg(leg, logs, wager.TargetDate))
		}

		status := settlement.SettleWager(outcomes, s.cfg.ReportPartial)
		item := wagerLabel(wager)
		switch {
		case settlement.Terminal(status):
			settledAt := now
			if err := s.wagerRepo.SetOutcome(ctx, wager.ID, status, outcomes, &settledAt); err != nil {
				report.RecordFailed(item, err.Error())
				continue
			}
			settledLegs = append(settledLegs, outcomes...)
			report.RecordProcessed(item)
			s.auditSettled(wager, status, outcomes)
		case status == models.WagerNoData && outcome.WindowClosed(wager.TargetDate, now):
			settledAt := now
			if err := s.wagerRepo.SetOutcome(ctx, wager.ID, status, outcomes, &settledAt); err != nil {
				report.RecordFailed(item, err.Error())
				continue
			}
			report.RecordSkipped(item, "no box scores in window")
			s.auditSettled(wager, status, outcomes)
		case status == models.WagerPartial:
			if err := s.wagerRepo.SetOutcome(ctx, wager.ID, status, outcomes, nil); err != nil {
				report.RecordFailed(item, err.Error())
				continue
			}
			report.RecordSkipped(item, "unresolved legs")
		default:
			report.RecordSkipped(item, "awaiting box scores")
		}
	}

	if len(settledLegs) > 0 {
		if err := s.updateCalibration(ctx, settledLegs, now); err != nil {
			return nil, err
		}
	}

	s.logger.WithFields(logrus.Fields{
		"pending":   len(pending),
		"settled":   report.Processed,
		"skipped":   report.Skipped,
		"failed":    report.Failed,
		"new_legs":  len(settledLegs),
		"lookback":  s.cfg.LookbackDays,
	}).Info("Settlement run complete")
	return report, nil
}

// Calibration returns the stored calibration aggregates.
func (s *SettlementService) Calibration(ctx context.Context) ([]*models.CalibrationMetric, error) {
	return s.calibRepo.GetAll(ctx)
}

// refreshScores pulls finals covering every pending wager's search
// window, persists them, then loads the full window from the store so
// matching sees earlier box scores too.
func (s *SettlementService) refreshScores(ctx context.Context, pending []*models.Wager) ([]*models.GameLog, error) {
	earliest := pending[0].TargetDate
	latest := pending[0].TargetDate
	for _, wager := range pending[1:] {
		if wager.TargetDate.Before(earliest) {
			earliest = wager.TargetDate
		}
		if wager.TargetDate.After(latest) {
			latest = wager.TargetDate
		}
	}
	from, _ := outcome.SearchWindow(earliest)
	_, to := outcome.SearchWindow(latest)

	finals, err := s.scoreFeed.FetchFinals(ctx, s.sport, from, to)
	if err != nil {
		return nil, err
	}
	if len(finals) > 0 {
		ptrs := make([]*models.GameLog, len(finals))
		for i := range finals {
			ptrs[i] = &finals[i]
		}
		if _, err := s.logRepo.UpsertBatch(ctx, ptrs); err != nil {
			return nil, fmt.Errorf("storing box scores: %w", err)
		}
	}

	players, err := s.logRepo.GetByDateWindow(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading game logs: %w", err)
	}
	teams, err := s.logRepo.GetTeamRows(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading team scores: %w", err)
	}
	return append(players, teams...), nil
}

// updateCalibration folds freshly settled legs into the stored slices.
// Wagers settle exactly once, so each leg contributes exactly once.
func (s *SettlementService) updateCalibration(ctx context.Context, settledLegs []models.LegOutcome, now time.Time) error {
	deltas := settlement.Rollup(settledLegs, now)
	if len(deltas) == 0 {
		return nil
	}

	stored, err := s.calibRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("loading calibration metrics: %w", err)
	}
	existing := make(map[string]models.CalibrationMetric, len(stored))
	for _, m := range stored {
		existing[m.Dimension+"|"+m.DimensionValue] = *m
	}

	for _, delta := range deltas {
		merged := settlement.Merge(existing[delta.Dimension+"|"+delta.DimensionValue], delta)
		if err := s.calibRepo.Upsert(ctx, &merged); err != nil {
			return fmt.Errorf("storing calibration slice %s/%s: %w", merged.Dimension, merged.DimensionValue, err)
		}
		s.audit.LogCalibrationUpdate(merged.Dimension, merged.DimensionValue, merged.Resolved,
			merged.Accuracy, merged.CalibrationFactor, merged.Sufficient)
	}
	return nil
}

// auditSettled records a terminal wager write with its leg breakdown.
func (s *SettlementService) auditSettled(wager *models.Wager, status models.WagerStatus, outcomes []models.LegOutcome) {
	var hits, pushes, misses, noData int
	for _, o := range outcomes {
		switch o.Result {
		case models.LegHit:
			hits++
		case models.LegPush:
			pushes++
		case models.LegMiss:
			misses++
		default:
			noData++
		}
	}
	s.audit.LogWagerSettled(wager.ID.String(), string(status), hits, pushes, misses, noData)
}

func wagerLabel(wager *models.Wager) string {
	return fmt.Sprintf("%s/%s %s", wager.Tier, wager.Engine, wager.TargetDate.Format("2006-01-02"))
}
