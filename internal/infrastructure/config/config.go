// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	tol := cfg.Matching.AmountTolerance
//	dbPath := cfg.Storage.DatabasePath
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration
type Config struct {
	Matching      MatchingConfig      `yaml:"matching"`
	Feeds         FeedsConfig         `yaml:"feeds"`
	Storage       StorageConfig       `yaml:"storage"`
	Server        ServerConfig        `yaml:"server"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// MatchingConfig holds the reconciliation tolerances and strategy
type MatchingConfig struct {
	AmountTolerance      float64 `yaml:"amount_tolerance"`       // monetary units, inclusive
	TimeToleranceSeconds int     `yaml:"time_tolerance_seconds"` // inclusive
	Strategy             string  `yaml:"strategy"`               // "first_fit" (default) or "best_fit"
}

// FeedsConfig holds feed-specific cleanup rules and the merchant table
type FeedsConfig struct {
	ExemptPaymentMethod string           `yaml:"exempt_payment_method"`
	LocationLabelPrefix string           `yaml:"location_label_prefix"`
	Merchants           map[int64]string `yaml:"merchants"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the production defaults: 5 NOK / 5 minutes, first-fit,
// the current terminal fleet, and the known feed noise values.
func Default() *Config {
	return &Config{
		Matching: MatchingConfig{
			AmountTolerance:      5,
			TimeToleranceSeconds: 300,
			Strategy:             "first_fit",
		},
		Feeds: FeedsConfig{
			ExemptPaymentMethod: "Svea Checkout",
			LocationLabelPrefix: "Unaas Cycling ",
			Merchants: map[int64]string{
				65778282: "Oslo",
				65796069: "Oslo",
				65820373: "Skien",
				65820364: "Kristiansand",
				65820361: "Trondheim",
			},
		},
		Storage: StorageConfig{
			DatabasePath: "recon.db",
		},
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "text",
			},
		},
	}
}

// Load reads and parses the config file. Keys absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${RECON_DB_PATH})
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := Default()
	cfg.Matching.AmountTolerance = getEnvFloat("RECON_AMOUNT_TOLERANCE", cfg.Matching.AmountTolerance)
	cfg.Matching.TimeToleranceSeconds = getEnvInt("RECON_TIME_TOLERANCE_SECONDS", cfg.Matching.TimeToleranceSeconds)
	cfg.Matching.Strategy = getEnv("RECON_STRATEGY", cfg.Matching.Strategy)
	cfg.Feeds.ExemptPaymentMethod = getEnv("RECON_EXEMPT_PAYMENT_METHOD", cfg.Feeds.ExemptPaymentMethod)
	cfg.Feeds.LocationLabelPrefix = getEnv("RECON_LOCATION_LABEL_PREFIX", cfg.Feeds.LocationLabelPrefix)
	cfg.Storage.DatabasePath = getEnv("RECON_DB_PATH", cfg.Storage.DatabasePath)
	cfg.Server.Port = getEnvInt("RECON_PORT", cfg.Server.Port)
	cfg.Observability.Logging.Level = getEnv("LOG_LEVEL", cfg.Observability.Logging.Level)
	cfg.Observability.Logging.Format = getEnv("LOG_FORMAT", cfg.Observability.Logging.Format)
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from the specified path, falls back to
// environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

func (c *Config) validate() error {
	if c.Matching.AmountTolerance < 0 {
		return fmt.Errorf("matching.amount_tolerance must not be negative")
	}
	if c.Matching.TimeToleranceSeconds < 0 {
		return fmt.Errorf("matching.time_tolerance_seconds must not be negative")
	}
	switch c.Matching.Strategy {
	case "", "first_fit", "best_fit":
	default:
		return fmt.Errorf("matching.strategy: unknown strategy %q", c.Matching.Strategy)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}
