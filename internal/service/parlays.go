package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/config"
	applogger "github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/logger"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/parlay"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/repository"
)

// ParlayService assembles wagers from playable assessments across every
// risk tier and engine variant.
type ParlayService struct {
	assessRepo repository.AssessmentRepository
	wagerRepo  repository.WagerRepository
	assembler  *parlay.Assembler
	cfg        config.ParlayConfig
	logger     *logrus.Logger
	audit      *applogger.AuditLogger
}

func NewParlayService(
	assessRepo repository.AssessmentRepository,
	wagerRepo repository.WagerRepository,
	assembler *parlay.Assembler,
	cfg config.ParlayConfig,
	logger *logrus.Logger,
) *ParlayService {
	return &ParlayService{
		assessRepo: assessRepo,
		wagerRepo:  wagerRepo,
		assembler:  assembler,
		cfg:        cfg,
		logger:     logger,
		audit:      applogger.NewAuditLogger(logger),
	}
}

// GenerateParlays runs assembly for each tier and configured engine
// variant against the target date's playable assessments. A tier that
// cannot fill six legs is a skip, not a failure; an invariant violation
// aborts the run.
func (s *ParlayService) GenerateParlays(ctx context.Context, targetDate time.Time) (*models.RunReport, []*models.Wager, error) {
	report := models.NewRunReport("generate_parlays")
	defer report.Finish()

	assessments, err := s.assessRepo.GetPlayableByDate(ctx, targetDate)
	if err != nil {
		return nil, nil, fmt.Errorf("loading assessments: %w", err)
	}
	duos := parlay.DetectDuoStacks(assessments)

	var wagers []*models.Wager
	for _, tier := range parlay.TierConfigs() {
		for _, variant := range s.cfg.Engines {
			item := fmt.Sprintf("%s/%s", tier.Tier, variant.Name)

			wager, err := s.assembler.Assemble(assessments, duos, tier, variant, targetDate)
			if err != nil {
				if errors.Is(err, models.ErrNoCandidates) {
					report.RecordSkipped(item, "no qualifying six-leg combination")
					continue
				}
				var iv *models.InvariantViolationError
				if errors.As(err, &iv) {
					s.audit.LogInvariantViolation("generate_parlays", iv.Error())
					return nil, nil, err
				}
				report.RecordFailed(item, err.Error())
				continue
			}

			if err := s.wagerRepo.Create(ctx, wager); err != nil {
				report.RecordFailed(item, err.Error())
				continue
			}
			wagers = append(wagers, wager)
			report.RecordProcessed(item)
			s.audit.LogWagerCreated(wager.ID.String(), string(wager.Tier), wager.Engine, wager.LegCount,
				wager.TotalEdge, wager.CombinedOdds, wager.ConfidenceScore, wager.TargetDate)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"target_date": targetDate.Format("2006-01-02"),
		"candidates":  len(assessments),
		"duos":        len(duos),
		"wagers":      len(wagers),
		"skipped":     report.Skipped,
	}).Info("Parlay generation complete")
	return report, wagers, nil
}

// Wagers returns the stored wagers for a target date.
func (s *ParlayService) Wagers(ctx context.Context, targetDate time.Time) ([]*models.Wager, error) {
	return s.wagerRepo.GetByTargetDate(ctx, targetDate)
}
