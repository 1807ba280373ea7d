package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/config"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/database"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/engine"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/feeds"
	applogger "github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/logger"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/repository"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile        string
	gameDateFlag      string
	autoRefresh       bool
	teammateOut       []string
	minutesRestricted []string

	logger   *logrus.Logger
	cfg      *config.Config
	db       *database.DB
	analysis *service.AnalysisService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVarP(&gameDateFlag, "date", "d", "", "Game date to analyze (YYYY-MM-DD, defaults to today UTC)")
	rootCmd.Flags().BoolVar(&autoRefresh, "auto", false, "Refresh lines, histories and defense ranks from the feeds first")
	rootCmd.Flags().StringSliceVar(&teammateOut, "teammate-out", nil, "Players ruled out of the slate")
	rootCmd.Flags().StringSliceVar(&minutesRestricted, "minutes-restricted", nil, "Players on a minutes restriction")
}

var rootCmd = &cobra.Command{
	Use:     "analyze",
	Short:   "Assess prop lines for a game date",
	Long:    `Runs the edge analysis over a slate of player prop lines and stores one assessment per line.`,
	Version: fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}
	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	logger = applogger.NewLogger(cfg.App.LogLevel)

	var err error
	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	httpClient := feeds.NewRateLimitedHTTPClient(feeds.HTTPClientConfigFromFeeds(cfg.Feeds), logger)
	adapter := feeds.NewAdapter()

	lineFeed := feeds.NewLineClient(httpClient, cfg.Feeds.Lines.BaseURL, cfg.Feeds.Lines.APIKey, adapter, logger)
	historyClient := feeds.NewHistoryClient(httpClient, cfg.Feeds.History.BaseURL, cfg.Feeds.History.APIKey,
		cfg.Feeds.HistoryPageSize, cfg.Feeds.HistoryConcurrency, adapter, logger)
	historyFeed := feeds.NewCachedHistoryFeed(historyClient, time.Duration(cfg.Feeds.CacheTTLMinutes)*time.Minute)
	defenseFeed := feeds.NewDefenseClient(httpClient, cfg.Feeds.Defense.BaseURL, cfg.Feeds.Defense.APIKey, adapter, logger)

	analysis = service.NewAnalysisService(
		lineFeed,
		historyFeed,
		defenseFeed,
		repos.PropLine,
		repos.GameLog,
		repos.DefenseRank,
		repos.Assessment,
		engine.New(logger),
		cfg.Analysis,
		logger,
	)
	return nil
}

func runAnalysis(ctx context.Context) error {
	gameDate, err := resolveGameDate(gameDateFlag)
	if err != nil {
		return err
	}

	params := service.AnalysisParams{
		TeammateOut:       teammateOut,
		MinutesRestricted: minutesRestricted,
	}

	var report *models.RunReport
	if autoRefresh {
		report, err = analysis.AnalyzeAuto(ctx, gameDate, params)
	} else {
		report, err = analysis.Analyze(ctx, gameDate, params)
	}
	if err != nil {
		logger.WithError(err).Error("Analysis run failed")
		return err
	}

	fmt.Printf("Analyzed %d lines for %s: %d assessed, %d skipped, %d failed\n",
		report.Total, gameDate.Format("2006-01-02"), report.Processed, report.Skipped, report.Failed)
	for reason, count := range report.SkipCounts {
		fmt.Printf("  %d skipped: %s\n", count, reason)
	}
	return nil
}

func resolveGameDate(value string) (time.Time, error) {
	if value == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
	}
	return parsed, nil
}
