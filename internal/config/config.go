// Package config provides configuration management for the parlay simulator.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Feeds      FeedsConfig      `mapstructure:"feeds" validate:"required"`
	Analysis   AnalysisConfig   `mapstructure:"analysis" validate:"required"`
	Parlay     ParlayConfig     `mapstructure:"parlay" validate:"required"`
	Settlement SettlementConfig `mapstructure:"settlement" validate:"required"`
	API        APIConfig        `mapstructure:"api" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Log        LogConfig        `mapstructure:"log"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// FeedsConfig represents the upstream data feed configuration
type FeedsConfig struct {
	Lines                 FeedEndpoint `mapstructure:"lines" validate:"required"`
	History               FeedEndpoint `mapstructure:"history" validate:"required"`
	Defense               FeedEndpoint `mapstructure:"defense" validate:"required"`
	Scores                FeedEndpoint `mapstructure:"scores" validate:"required"`
	Stream                StreamConfig `mapstructure:"stream"`
	RequestTimeoutSeconds int          `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	RetryMax              int          `mapstructure:"retry_max" validate:"gte=0"`
	RateLimitPerSecond    float64      `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
	CacheTTLMinutes       int          `mapstructure:"cache_ttl_minutes" validate:"required,gt=0"`
	HistoryPageSize       int          `mapstructure:"history_page_size" validate:"required,gt=0"`
	HistoryConcurrency    int          `mapstructure:"history_concurrency" validate:"required,gt=0"`
}

// FeedEndpoint represents a single upstream HTTP feed
type FeedEndpoint struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	APIKey  string `mapstructure:"api_key"`
}

// StreamConfig represents the live line update stream
type StreamConfig struct {
	Enabled               bool   `mapstructure:"enabled"`
	URL                   string `mapstructure:"url"`
	ReconnectMaxAttempts  int    `mapstructure:"reconnect_max_attempts"`
	ReconnectDelaySeconds int    `mapstructure:"reconnect_delay_seconds"`
}

// AnalysisConfig represents edge analysis configuration
type AnalysisConfig struct {
	Sport        string `mapstructure:"sport" validate:"required,sport"`
	HistoryGames int    `mapstructure:"history_games" validate:"required,gte=10"`
}

// ParlayConfig represents parlay assembly configuration
type ParlayConfig struct {
	MaxLegs        int            `mapstructure:"max_legs" validate:"required,gt=0"`
	MinStatTypes   int            `mapstructure:"min_stat_types" validate:"required,gt=0"`
	MaxPerStatType int            `mapstructure:"max_per_stat_type" validate:"required,gt=0"`
	SourcePriority []string       `mapstructure:"source_priority"`
	Engines        []EngineConfig `mapstructure:"engines" validate:"required,min=1,dive"`
}

// EngineConfig represents one assembly variant. The control engine runs
// with scale 1.0; variants scale the edge thresholds to loosen or
// tighten candidate admission.
type EngineConfig struct {
	Name      string  `mapstructure:"name" validate:"required"`
	EdgeScale float64 `mapstructure:"edge_scale" validate:"required,gt=0"`
}

// SettlementConfig represents outcome reconciliation configuration
type SettlementConfig struct {
	LookbackDays  int  `mapstructure:"lookback_days" validate:"required,gt=0"`
	ReportPartial bool `mapstructure:"report_partial"`
}

// APIConfig represents the invocation API server configuration
type APIConfig struct {
	Port       int `mapstructure:"port" validate:"required,min=1,max=65535"`
	HealthPort int `mapstructure:"health_port" validate:"required,min=1,max=65535"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig represents scheduled run configuration
type SchedulerConfig struct {
	Enabled               bool   `mapstructure:"enabled"`
	AnalyzeCron           string `mapstructure:"analyze_cron"`
	ParlaysCron           string `mapstructure:"parlays_cron"`
	SettleIntervalMinutes int    `mapstructure:"settle_interval_minutes"`
}

// LogConfig represents optional log file output
type LogConfig struct {
	File FileLogConfig `mapstructure:"file"`
}

// FileLogConfig represents rotating log file settings
type FileLogConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// RequestTimeout returns the feed request timeout as a duration
func (c *FeedsConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// CacheTTL returns the snapshot cache TTL as a duration
func (c *FeedsConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// SettleInterval returns the settle job interval as a duration
func (c *SchedulerConfig) SettleInterval() time.Duration {
	return time.Duration(c.SettleIntervalMinutes) * time.Minute
}
