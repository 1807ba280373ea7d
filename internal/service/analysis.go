// Package service orchestrates feeds, the edge engine, parlay assembly
// and settlement over the repository layer. Services own no algorithm;
// they fetch snapshots, loop items and collect run reports.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/config"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/engine"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/feeds"
	applogger "github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/logger"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/outcome"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/repository"
)

// AnalysisParams carries per-run context the feeds do not supply: vegas
// spreads keyed by team name and injury intel keyed by player name.
type AnalysisParams struct {
	Spreads           map[string]float64 `json:"spreads,omitempty"`
	TeammateOut       []string           `json:"teammate_out,omitempty"`
	MinutesRestricted []string           `json:"minutes_restricted,omitempty"`
	ExpectedMinutes   map[string]float64 `json:"expected_minutes,omitempty"`
}

func (p *AnalysisParams) spreadFor(team string) float64 {
	for name, spread := range p.Spreads {
		if strings.EqualFold(name, team) {
			return spread
		}
	}
	return 0
}

func (p *AnalysisParams) expectedMinutesFor(player string) float64 {
	for name, minutes := range p.ExpectedMinutes {
		if strings.EqualFold(name, player) {
			return minutes
		}
	}
	return 0
}

func nameListed(list []string, player string) bool {
	for _, name := range list {
		if strings.EqualFold(name, player) {
			return true
		}
	}
	return false
}

// AnalysisService runs edge assessment over a slate of prop lines.
type AnalysisService struct {
	lineFeed    feeds.LineFeed
	historyFeed feeds.HistoryFeed
	defenseFeed feeds.DefenseFeed
	lineRepo    repository.PropLineRepository
	logRepo     repository.GameLogRepository
	defenseRepo repository.DefenseRankRepository
	assessRepo  repository.AssessmentRepository
	engine      *engine.Engine
	cfg         config.AnalysisConfig
	logger      *logrus.Logger
	engineLog   *applogger.EngineLogger
}

func NewAnalysisService(
	lineFeed feeds.LineFeed,
	historyFeed feeds.HistoryFeed,
	defenseFeed feeds.DefenseFeed,
	lineRepo repository.PropLineRepository,
	logRepo repository.GameLogRepository,
	defenseRepo repository.DefenseRankRepository,
	assessRepo repository.AssessmentRepository,
	eng *engine.Engine,
	cfg config.AnalysisConfig,
	logger *logrus.Logger,
) *AnalysisService {
	return &AnalysisService{
		lineFeed:    lineFeed,
		historyFeed: historyFeed,
		defenseFeed: defenseFeed,
		lineRepo:    lineRepo,
		logRepo:     logRepo,
		defenseRepo: defenseRepo,
		assessRepo:  assessRepo,
		engine:      eng,
		cfg:         cfg,
		logger:      logger,
		engineLog:   applogger.NewEngineLogger(logger),
	}
}

// Analyze assesses the stored prop lines for a game date. Histories and
// defense ranks come from the store; nothing is fetched upstream.
func (s *AnalysisService) Analyze(ctx context.Context, gameDate time.Time, params AnalysisParams) (*models.RunReport, error) {
	lines, err := s.lineRepo.GetByDate(ctx, s.cfg.Sport, gameDate)
	if err != nil {
		return nil, fmt.Errorf("loading prop lines: %w", err)
	}
	return s.assessLines(ctx, "analyze", lines, params)
}

// AnalyzeAuto refreshes lines, histories and defense ranks from the
// upstream feeds, persists them, then assesses the slate. Any feed
// failure aborts the whole run.
func (s *AnalysisService) AnalyzeAuto(ctx context.Context, gameDate time.Time, params AnalysisParams) (*models.RunReport, error) {
	lines, err := s.refreshSnapshot(ctx, gameDate)
	if err != nil {
		return nil, err
	}
	return s.assessLines(ctx, "analyze_auto", lines, params)
}

// Picks returns the playable assessments for a date.
func (s *AnalysisService) Picks(ctx context.Context, gameDate time.Time) ([]*models.EdgeAssessment, error) {
	return s.assessRepo.GetPlayableByDate(ctx, gameDate)
}

func (s *AnalysisService) refreshSnapshot(ctx context.Context, gameDate time.Time) ([]*models.PropLine, error) {
	fetched, err := s.lineFeed.FetchLines(ctx, s.cfg.Sport, gameDate)
	if err != nil {
		return nil, err
	}
	lines := make([]*models.PropLine, len(fetched))
	for i := range fetched {
		lines[i] = &fetched[i]
	}
	if _, err := s.lineRepo.UpsertBatch(ctx, lines); err != nil {
		return nil, fmt.Errorf("storing prop lines: %w", err)
	}

	fetchedRanks, err := s.defenseFeed.FetchRanks(ctx, s.cfg.Sport)
	if err != nil {
		return nil, err
	}
	ranks := make([]*models.DefenseRank, len(fetchedRanks))
	for i := range fetchedRanks {
		ranks[i] = &fetchedRanks[i]
	}
	if _, err := s.defenseRepo.UpsertBatch(ctx, ranks); err != nil {
		return nil, fmt.Errorf("storing defense ranks: %w", err)
	}

	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		key := strings.ToLower(line.PlayerName)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		fetchedLogs, err := s.historyFeed.FetchPlayerLogs(ctx, line.PlayerName, s.cfg.HistoryGames)
		if err != nil {
			return nil, err
		}
		logs := make([]*models.GameLog, len(fetchedLogs))
		for i := range fetchedLogs {
			logs[i] = &fetchedLogs[i]
		}
		if _, err := s.logRepo.UpsertBatch(ctx, logs); err != nil {
			return nil, fmt.Errorf("storing game logs for %s: %w", line.PlayerName, err)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"lines":   len(lines),
		"ranks":   len(ranks),
		"players": len(seen),
	}).Info("Refreshed upstream snapshot")
	return lines, nil
}

// assessLines runs the engine over a slate using one in-memory snapshot
// of histories and defense ranks. Skippable items become NO_BET marker
// rows; one bad item never aborts the batch.
func (s *AnalysisService) assessLines(ctx context.Context, action string, lines []*models.PropLine, params AnalysisParams) (*models.RunReport, error) {
	report := models.NewRunReport(action)
	defer report.Finish()

	snap, err := s.buildSnapshot(ctx, lines)
	if err != nil {
		return nil, err
	}

	var strong, lean, noBet int
	for _, line := range lines {
		item := lineLabel(line)
		assessment, err := s.engine.Assess(line, snap.historyFor(line.PlayerName), s.gameContext(line, snap, &params))
		if err != nil {
			if models.IsSkippable(err) {
				s.recordSkip(ctx, line, err, report)
				continue
			}
			report.RecordFailed(item, err.Error())
			continue
		}
		if err := s.assessRepo.Upsert(ctx, assessment); err != nil {
			report.RecordFailed(item, err.Error())
			continue
		}
		report.RecordProcessed(item)
		switch assessment.Tier {
		case models.TierStrong:
			strong++
		case models.TierLean:
			lean++
		default:
			noBet++
		}
	}

	s.engineLog.LogAnalysisRun(s.cfg.Sport, report.Total, strong, lean, noBet, report.Skipped,
		float64(time.Since(report.StartedAt).Milliseconds()))
	if report.Failed > 0 {
		s.logger.WithFields(logrus.Fields{
			"action": action,
			"failed": report.Failed,
		}).Warn("Some lines failed to assess")
	}
	return report, nil
}

type analysisSnapshot struct {
	histories map[string][]*models.GameLog
	defense   map[string]int
}

func (s *AnalysisService) buildSnapshot(ctx context.Context, lines []*models.PropLine) (*analysisSnapshot, error) {
	snap := &analysisSnapshot{
		histories: make(map[string][]*models.GameLog),
		defense:   make(map[string]int),
	}

	ranks, err := s.defenseRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading defense ranks: %w", err)
	}
	for _, rank := range ranks {
		snap.defense[defenseKey(rank.Team, rank.StatType)] = rank.Rank
	}

	for _, line := range lines {
		key := strings.ToLower(line.PlayerName)
		if _, ok := snap.histories[key]; ok {
			continue
		}
		logs, err := s.logRepo.GetByPlayer(ctx, line.PlayerName, s.cfg.HistoryGames)
		if err != nil {
			return nil, fmt.Errorf("loading history for %s: %w", line.PlayerName, err)
		}
		snap.histories[key] = logs
	}
	return snap, nil
}

func (snap *analysisSnapshot) historyFor(player string) []*models.GameLog {
	return snap.histories[strings.ToLower(player)]
}

func (snap *analysisSnapshot) rankFor(opponent, statType string) int {
	return snap.defense[defenseKey(opponent, statType)]
}

// defenseKey canonicalizes team naming so a rank stored under "MIA"
// still resolves for a line listing "Miami Heat".
func defenseKey(team, statType string) string {
	canonical := outcome.ResolveTeam(team)
	if canonical == "" {
		canonical = strings.ToLower(strings.TrimSpace(team))
	}
	return canonical + "|" + statType
}

func (s *AnalysisService) gameContext(line *models.PropLine, snap *analysisSnapshot, params *AnalysisParams) engine.GameContext {
	return engine.GameContext{
		Opponent:           line.Opponent,
		DefenseRank:        snap.rankFor(line.Opponent, line.StatType),
		Spread:             params.spreadFor(line.TeamName),
		TeammateOut:        nameListed(params.TeammateOut, line.PlayerName),
		MinutesRestriction: nameListed(params.MinutesRestricted, line.PlayerName),
		ExpectedMinutes:    params.expectedMinutesFor(line.PlayerName),
		Home:               line.Home,
	}
}

// recordSkip persists a NO_BET marker so downstream readers see why the
// line was not scored, then counts the skip in the run report.
func (s *AnalysisService) recordSkip(ctx context.Context, line *models.PropLine, cause error, report *models.RunReport) {
	reason := skipReasonFor(cause)
	s.engineLog.LogSkip(line.PlayerName, line.StatType, reason)
	if err := s.assessRepo.Upsert(ctx, skipMarker(line, reason)); err != nil {
		s.logger.WithError(err).WithField("player", line.PlayerName).Warn("Failed to store skip marker")
	}
	report.RecordSkipped(lineLabel(line), reason)
}

func skipReasonFor(err error) string {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return models.SkipInsufficientHistory
}

func skipMarker(line *models.PropLine, reason string) *models.EdgeAssessment {
	return &models.EdgeAssessment{
		ID:         uuid.New(),
		PlayerName: line.PlayerName,
		TeamName:   line.TeamName,
		Sport:      line.Sport,
		StatType:   line.StatType,
		Side:       line.Side,
		Line:       line.Line,
		Odds:       line.Odds,
		Source:     line.Source,
		EventID:    line.EventID,
		GameDate:   line.GameDate,
		Tier:       models.TierNoBet,
		Confidence: models.ConfidenceModerate,
		SkipReason: reason,
		Engine:     engine.DefaultEngineName,
		AnalyzedAt: time.Now().UTC(),
	}
}

func lineLabel(line *models.PropLine) string {
	return fmt.Sprintf("%s %s %s %.1f", line.PlayerName, line.StatType, line.Side, line.Line)
}
