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
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/feeds"
	applogger "github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/logger"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/outcome"
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
	configFile string
	asOfFlag   string

	logger     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	settlement *service.SettlementService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&asOfFlag, "as-of", "", "Settle as of this instant (RFC3339, defaults to now)")
}

var rootCmd = &cobra.Command{
	Use:     "settle",
	Short:   "Reconcile pending wagers against final box scores",
	Long:    `Fetches final box scores for pending wagers, resolves each leg and records terminal outcomes and calibration slices.`,
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
		return runSettlement(cmd.Context())
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
	scoreFeed := feeds.NewScoreClient(httpClient, cfg.Feeds.Scores.BaseURL, cfg.Feeds.Scores.APIKey, adapter, logger)

	settlement = service.NewSettlementService(
		scoreFeed,
		repos.Wager,
		repos.GameLog,
		repos.Calibration,
		outcome.NewMatcher(logger),
		cfg.Settlement,
		cfg.Analysis.Sport,
		logger,
	)
	return nil
}

func runSettlement(ctx context.Context) error {
	now := time.Now().UTC()
	if asOfFlag != "" {
		parsed, err := time.Parse(time.RFC3339, asOfFlag)
		if err != nil {
			return fmt.Errorf("invalid as-of %q, want RFC3339: %w", asOfFlag, err)
		}
		now = parsed
	}

	report, err := settlement.Settle(ctx, now)
	if err != nil {
		logger.WithError(err).Error("Settlement run failed")
		return err
	}

	fmt.Printf("Reconciled %d pending wagers: %d settled, %d skipped\n",
		report.Total, report.Processed, report.Skipped)
	for reason, count := range report.SkipCounts {
		fmt.Printf("  %d skipped: %s\n", count, reason)
	}
	return nil
}
