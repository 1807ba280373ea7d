// Package scheduler runs the analysis, parlay and settlement actions on
// a timetable. It owns no business logic; every job is one service call.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/config"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/metrics"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/service"
)

// AnalysisRunner refreshes upstream data and scores the slate.
type AnalysisRunner interface {
	AnalyzeAuto(ctx context.Context, gameDate time.Time, params service.AnalysisParams) (*models.RunReport, error)
}

// ParlayRunner assembles wagers for a target date.
type ParlayRunner interface {
	GenerateParlays(ctx context.Context, targetDate time.Time) (*models.RunReport, []*models.Wager, error)
}

// SettlementRunner reconciles pending wagers.
type SettlementRunner interface {
	Settle(ctx context.Context, now time.Time) (*models.RunReport, error)
}

// Job run ceilings. A stuck upstream call must not wedge the next tick.
const (
	analyzeTimeout = 30 * time.Minute
	parlaysTimeout = 10 * time.Minute
	settleTimeout  = 15 * time.Minute
)

// Scheduler manages the recurring action jobs.
type Scheduler struct {
	cron       *cron.Cron
	analysis   AnalysisRunner
	parlays    ParlayRunner
	settlement SettlementRunner
	logger     *logrus.Logger
	mu         sync.RWMutex
	isRunning  bool
	jobIDs     []cron.EntryID
}

// NewScheduler creates a scheduler over the three action runners.
func NewScheduler(analysis AnalysisRunner, parlays ParlayRunner, settlement SettlementRunner, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		analysis:   analysis,
		parlays:    parlays,
		settlement: settlement,
		logger:     logger,
		jobIDs:     make([]cron.EntryID, 0),
	}
}

// Apply schedules every job the config enables.
func (s *Scheduler) Apply(cfg config.SchedulerConfig) error {
	if cfg.AnalyzeCron != "" {
		if err := s.ScheduleAnalyze(cfg.AnalyzeCron); err != nil {
			return err
		}
	}
	if cfg.ParlaysCron != "" {
		if err := s.ScheduleParlays(cfg.ParlaysCron); err != nil {
			return err
		}
	}
	if cfg.SettleIntervalMinutes > 0 {
		if err := s.ScheduleSettle(cfg.SettleIntervalMinutes); err != nil {
			return err
		}
	}
	return nil
}

// ScheduleAnalyze schedules the slate refresh and scoring run.
func (s *Scheduler) ScheduleAnalyze(cronExpression string) error {
	return s.addJob("analyze_auto", cronExpression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
		defer cancel()

		report, err := s.analysis.AnalyzeAuto(ctx, todayUTC(), service.AnalysisParams{})
		metrics.ObserveRun("analyze_auto", report, err)
		s.logRun("analyze_auto", report, err)
	})
}

// ScheduleParlays schedules wager assembly against the stored slate.
func (s *Scheduler) ScheduleParlays(cronExpression string) error {
	return s.addJob("generate_parlays", cronExpression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), parlaysTimeout)
		defer cancel()

		report, wagers, err := s.parlays.GenerateParlays(ctx, todayUTC())
		metrics.ObserveRun("generate_parlays", report, err)
		if err == nil {
			metrics.ObserveWagers(wagers)
		}
		s.logRun("generate_parlays", report, err)
	})
}

// ScheduleSettle schedules settlement on a fixed interval.
func (s *Scheduler) ScheduleSettle(intervalMinutes int) error {
	if intervalMinutes < 1 {
		intervalMinutes = 1
	}
	return s.addJob("settle", fmt.Sprintf("@every %dm", intervalMinutes), func() {
		ctx, cancel := context.WithTimeout(context.Background(), settleTimeout)
		defer cancel()

		report, err := s.settlement.Settle(ctx, time.Now().UTC())
		metrics.ObserveRun("settle", report, err)
		s.logRun("settle", report, err)
	})
}

func (s *Scheduler) addJob(name, spec string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule %s while scheduler is running", name)
	}

	entryID, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return fmt.Errorf("scheduling %s on %q: %w", name, spec, err)
	}
	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"job":  name,
		"spec": spec,
	}).Info("Job scheduled")
	return nil
}

func (s *Scheduler) logRun(action string, report *models.RunReport, err error) {
	if err != nil {
		s.logger.WithError(err).WithField("action", action).Error("Scheduled run failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"action":    action,
		"processed": report.Processed,
		"skipped":   report.Skipped,
		"failed":    report.Failed,
	}).Info("Scheduled run complete")
}

// Start begins executing scheduled jobs.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop waits for running jobs and stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

// IsRunning reports whether the scheduler is executing jobs.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the earliest upcoming job time, or zero when idle.
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}
	next := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (next.IsZero() || entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}

func todayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
