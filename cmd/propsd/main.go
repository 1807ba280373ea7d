// Package main provides the entry point for the prop analysis daemon.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/api"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/config"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/database"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/engine"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/feeds"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/health"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/logger"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/metrics"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/outcome"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/parlay"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/repository"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/scheduler"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		cfg    *config.Config
		err    error
		appLog *logrus.Logger
		db     *database.DB
	)

	// Load configuration
	cfg, err = config.Load("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	if cfg.Log.File.Enabled {
		appLog = logger.NewLoggerWithFile(cfg.App.LogLevel, logger.FileConfig{
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		})
	} else {
		appLog = logger.NewLogger(cfg.App.LogLevel)
	}
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
		"commit":      GitCommit,
		"build_date":  BuildDate,
	}).Info("Parlay simulator daemon starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection and ensure schema
	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	// Initialize repositories
	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	// Initialize upstream feed clients
	httpClient := feeds.NewRateLimitedHTTPClient(feeds.HTTPClientConfigFromFeeds(cfg.Feeds), appLog)
	adapter := feeds.NewAdapter()

	lineFeed := feeds.NewLineClient(httpClient, cfg.Feeds.Lines.BaseURL, cfg.Feeds.Lines.APIKey, adapter, appLog)
	historyClient := feeds.NewHistoryClient(httpClient, cfg.Feeds.History.BaseURL, cfg.Feeds.History.APIKey,
		cfg.Feeds.HistoryPageSize, cfg.Feeds.HistoryConcurrency, adapter, appLog)
	historyFeed := feeds.NewCachedHistoryFeed(historyClient, time.Duration(cfg.Feeds.CacheTTLMinutes)*time.Minute)
	defenseFeed := feeds.NewDefenseClient(httpClient, cfg.Feeds.Defense.BaseURL, cfg.Feeds.Defense.APIKey, adapter, appLog)
	scoreFeed := feeds.NewScoreClient(httpClient, cfg.Feeds.Scores.BaseURL, cfg.Feeds.Scores.APIKey, adapter, appLog)

	appLog.WithFields(logrus.Fields{
		"lines":   cfg.Feeds.Lines.BaseURL,
		"history": cfg.Feeds.History.BaseURL,
		"defense": cfg.Feeds.Defense.BaseURL,
		"scores":  cfg.Feeds.Scores.BaseURL,
	}).Info("Feed clients initialized")

	// Initialize the analysis pipeline
	eng := engine.New(appLog)
	analysisSvc := service.NewAnalysisService(
		lineFeed,
		historyFeed,
		defenseFeed,
		repos.PropLine,
		repos.GameLog,
		repos.DefenseRank,
		repos.Assessment,
		eng,
		cfg.Analysis,
		appLog,
	)

	assembler := parlay.NewAssembler(cfg.Parlay, appLog)
	parlaySvc := service.NewParlayService(repos.Assessment, repos.Wager, assembler, cfg.Parlay, appLog)

	matcher := outcome.NewMatcher(appLog)
	settlementSvc := service.NewSettlementService(
		scoreFeed,
		repos.Wager,
		repos.GameLog,
		repos.Calibration,
		matcher,
		cfg.Settlement,
		cfg.Analysis.Sport,
		appLog,
	)

	// Health server starts first so orchestrators can probe during wiring
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        cfg.API.HealthPort,
		Logger:      appLog,
		DB:          db,
	})
	healthServer.Start(ctx)

	// Metrics server
	metricsServer := metrics.NewServer(cfg.Metrics, appLog)
	metricsServer.Start(ctx)

	// Invocation API server
	apiServer := api.NewServer(analysisSvc, parlaySvc, settlementSvc, cfg.API, appLog)
	apiServer.Start(ctx)

	// Live line stream keeps stored lines current between analysis runs
	if cfg.Feeds.Stream.Enabled {
		stream := feeds.NewLineStream(
			cfg.Feeds.Stream.URL,
			cfg.Feeds.Lines.APIKey,
			cfg.Analysis.Sport,
			adapter,
			feeds.ReconnectConfig{
				MaxRetries:        cfg.Feeds.Stream.ReconnectMaxAttempts,
				InitialBackoff:    time.Duration(cfg.Feeds.Stream.ReconnectDelaySeconds) * time.Second,
				MaxBackoff:        30 * time.Second,
				BackoffMultiplier: 1.5,
			},
			appLog,
		)
		stream.AddHandler(func(lines []models.PropLine) error {
			batch := make([]*models.PropLine, 0, len(lines))
			for i := range lines {
				batch = append(batch, &lines[i])
			}
			upsertCtx, cancelUpsert := context.WithTimeout(ctx, 30*time.Second)
			defer cancelUpsert()

			count, err := repos.PropLine.UpsertBatch(upsertCtx, batch)
			if err != nil {
				return err
			}
			appLog.WithField("count", count).Debug("Stream lines upserted")
			return nil
		})
		go func() {
			if err := stream.Run(ctx); err != nil && ctx.Err() == nil {
				appLog.WithError(err).Error("Line stream terminated")
			}
		}()
		appLog.WithField("url", cfg.Feeds.Stream.URL).Info("Line stream started")
	} else {
		appLog.Info("Line stream disabled; lines refresh on analysis runs only")
	}

	// Scheduler drives the daily pipeline when enabled
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.NewScheduler(analysisSvc, parlaySvc, settlementSvc, appLog)
		if err := sched.Apply(cfg.Scheduler); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule jobs")
		}
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
		appLog.WithFields(logrus.Fields{
			"analyze_cron":    cfg.Scheduler.AnalyzeCron,
			"parlays_cron":    cfg.Scheduler.ParlaysCron,
			"settle_interval": cfg.Scheduler.SettleIntervalMinutes,
		}).Info("Scheduler started")
	} else {
		appLog.Info("Scheduler disabled; runs are API-invoked only")
	}

	healthServer.SetReady(true)

	appLog.WithFields(logrus.Fields{
		"api_port":     cfg.API.Port,
		"health_port":  cfg.API.HealthPort,
		"metrics_port": cfg.Metrics.Port,
		"sport":        cfg.Analysis.Sport,
	}).Info("Parlay simulator daemon is running")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)

	// Cancel context to stop the stream and drain the servers
	cancel()

	if sched != nil {
		sched.Stop()
	}

	// Give components time to cleanup
	time.Sleep(2 * time.Second)

	appLog.Info("Parlay simulator daemon shut down successfully")
}
