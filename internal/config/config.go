package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"awardmatch/internal/apperr"
	"awardmatch/internal/matching"
)

// Store drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all process configuration. Values come from defaults, an
// optional config file (CONFIG_FILE) and environment variables, in that order.
type Config struct {
	// Environment
	Env string `mapstructure:"env"` // "development", "production", etc.

	// Server
	ServerAddr  string `mapstructure:"server_addr"`
	CORSOrigins string `mapstructure:"cors_origins"` // Comma-separated allowed origins

	// Storage
	StoreDriver    string `mapstructure:"store_driver"` // postgres, memory
	DatabaseURL    string `mapstructure:"database_url"`
	SeedDevContent bool   `mapstructure:"seed_dev_content"`

	// Matching
	CatalogFile        string        `mapstructure:"catalog_file"` // Empty uses the built-in catalog
	MatchThreshold     float64       `mapstructure:"match_threshold"`
	AnalyzeConcurrency int           `mapstructure:"analyze_concurrency"`
	AnalysisInterval   time.Duration `mapstructure:"analysis_interval"` // 0 disables scheduled runs

	// Rate limiting
	RedisURL     string `mapstructure:"redis_url"` // Empty keeps limiter state in memory
	RateLimitMax int    `mapstructure:"rate_limit_max"` // Requests per minute per client, 0 disables

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // json, console
}

// Load reads the configuration and validates it. Invalid values are
// returned as config errors.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("env", "development")
	v.SetDefault("server_addr", ":3000")
	v.SetDefault("cors_origins", "")
	v.SetDefault("store_driver", DriverPostgres)
	v.SetDefault("database_url", "postgres://localhost:5432/awardmatch?sslmode=disable")
	v.SetDefault("seed_dev_content", false)
	v.SetDefault("catalog_file", "")
	v.SetDefault("match_threshold", matching.DefaultMatchThreshold)
	v.SetDefault("analyze_concurrency", 4)
	v.SetDefault("analysis_interval", "0s")
	v.SetDefault("redis_url", "")
	v.SetDefault("rate_limit_max", 120)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, apperr.Wrap(apperr.KindConfig, err, "read config file %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperr.Wrap(apperr.KindConfig, err, "decode configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and required settings.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return apperr.Config("DATABASE_URL is required for the postgres store")
		}
	case DriverMemory:
	default:
		return apperr.Config("unknown STORE_DRIVER %q (want postgres or memory)", c.StoreDriver)
	}

	if c.MatchThreshold <= 0 || c.MatchThreshold > 1 {
		return apperr.Config("MATCH_THRESHOLD must be in (0, 1], got %v", c.MatchThreshold)
	}
	if c.AnalyzeConcurrency < 1 {
		return apperr.Config("ANALYZE_CONCURRENCY must be at least 1, got %d", c.AnalyzeConcurrency)
	}
	if c.AnalysisInterval < 0 {
		return apperr.Config("ANALYSIS_INTERVAL must not be negative")
	}
	if c.RateLimitMax < 0 {
		return apperr.Config("RATE_LIMIT_MAX must not be negative")
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return apperr.Config("unknown LOG_FORMAT %q (want json or console)", c.LogFormat)
	}
	return nil
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// UsesMemoryStore returns true when state is kept in process memory.
func (c *Config) UsesMemoryStore() bool {
	return c.StoreDriver == DriverMemory
}
