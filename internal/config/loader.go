// Package config provides configuration management for the parlay simulator.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	// A .env file next to the binary seeds the process environment before
	// placeholder expansion; absence is not an error
	_ = godotenv.Load()

	// Read the configuration file
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment variables override file values (PARLAY_SIM_DATABASE_HOST etc)
	v.SetEnvPrefix("PARLAY_SIM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func LoadWithDefaults(configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	_ = godotenv.Load()

	v.SetConfigType("yaml")

	v.SetEnvPrefix("PARLAY_SIM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	// Read and expand the configuration file if it exists
	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// If file doesn't exist, continue with defaults and environment variables

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults seeds viper with workable defaults for every optional knob
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "parlay-simulator")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("feeds.request_timeout_seconds", 15)
	v.SetDefault("feeds.retry_max", 3)
	v.SetDefault("feeds.rate_limit_per_second", 5)
	v.SetDefault("feeds.cache_ttl_minutes", 30)
	v.SetDefault("feeds.history_page_size", 100)
	v.SetDefault("feeds.history_concurrency", 4)
	v.SetDefault("feeds.stream.reconnect_max_attempts", 10)
	v.SetDefault("feeds.stream.reconnect_delay_seconds", 5)

	v.SetDefault("analysis.sport", "nba")
	v.SetDefault("analysis.history_games", 25)

	v.SetDefault("parlay.max_legs", 6)
	v.SetDefault("parlay.min_stat_types", 3)
	v.SetDefault("parlay.max_per_stat_type", 2)
	v.SetDefault("parlay.engines", []map[string]interface{}{
		{"name": "control", "edge_scale": 1.0},
	})

	v.SetDefault("settlement.lookback_days", 7)
	v.SetDefault("settlement.report_partial", false)

	v.SetDefault("api.port", 8080)
	v.SetDefault("api.health_port", 8081)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.analyze_cron", "0 14 * * *")
	v.SetDefault("scheduler.parlays_cron", "30 14 * * *")
	v.SetDefault("scheduler.settle_interval_minutes", 60)
}

// ReloadFromEnv reloads specific configuration values from environment variables
func ReloadFromEnv(cfg *Config) error {
	if envPath := os.Getenv("PARLAY_SIM_CONFIG_PATH"); envPath != "" {
		newCfg, err := Load(envPath)
		if err != nil {
			return err
		}
		*cfg = *newCfg
	}

	return nil
}
