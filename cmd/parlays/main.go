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
	applogger "github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/logger"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/odds"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/parlay"
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
	configFile     string
	targetDateFlag string

	logger  *logrus.Logger
	cfg     *config.Config
	db      *database.DB
	parlays *service.ParlayService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVarP(&targetDateFlag, "date", "d", "", "Slate date to build wagers for (YYYY-MM-DD, defaults to today UTC)")
}

var rootCmd = &cobra.Command{
	Use:     "parlays",
	Short:   "Assemble parlay wagers from stored assessments",
	Long:    `Builds one wager per risk tier and engine variant from the playable assessments of a slate.`,
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
		return runParlays(cmd.Context())
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

	assembler := parlay.NewAssembler(cfg.Parlay, logger)
	parlays = service.NewParlayService(repos.Assessment, repos.Wager, assembler, cfg.Parlay, logger)
	return nil
}

func runParlays(ctx context.Context) error {
	targetDate, err := resolveTargetDate(targetDateFlag)
	if err != nil {
		return err
	}

	report, wagers, err := parlays.GenerateParlays(ctx, targetDate)
	if err != nil {
		logger.WithError(err).Error("Parlay run failed")
		return err
	}

	fmt.Printf("Built %d wagers for %s (%d tier/engine combinations skipped)\n",
		len(wagers), targetDate.Format("2006-01-02"), report.Skipped)
	for _, w := range wagers {
		legOdds := make([]int, 0, len(w.Legs))
		for _, leg := range w.Legs {
			legOdds = append(legOdds, leg.Odds)
		}
		american, oddsErr := odds.ParlayAmerican(legOdds)
		if oddsErr != nil {
			fmt.Printf("✓ %s/%s: %d legs\n", w.Tier, w.Engine, w.LegCount)
			continue
		}
		implied, _ := odds.ImpliedProbability(american)
		fmt.Printf("✓ %s/%s: %d legs at %+d (implied %.1f%%, model %.1f%%)\n",
			w.Tier, w.Engine, w.LegCount, american, implied*100, w.CombinedHitRate*100)
	}
	for reason, count := range report.SkipCounts {
		fmt.Printf("  %d skipped: %s\n", count, reason)
	}
	return nil
}

func resolveTargetDate(value string) (time.Time, error) {
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
