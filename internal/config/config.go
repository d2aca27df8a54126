// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ConfigurationError reports invalid or missing configuration. It is
// raised before any fetch happens so the process fails fast.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s %s", e.Field, e.Reason)
}

// Config holds the application configuration.
type Config struct {
	APIKey             string
	Project            string
	Endpoint           string
	ModelRatesPath     string
	RefreshInterval    time.Duration
	FetchTimeout       time.Duration
	BucketWidth        time.Duration
	RangeDays          int
	FreqThreshold      int
	TokenThreshold     float64
	ErrorRateThreshold float64
	DefaultCostRate    float64
}

// Default values
const (
	defaultRefreshInterval    = 5 * time.Minute
	defaultFetchTimeout       = 30 * time.Second
	defaultBucketWidth        = time.Hour
	defaultRangeDays          = 7
	defaultFreqThreshold      = 100
	defaultTokenThreshold     = 8000
	defaultErrorRateThreshold = 0.5
	defaultCostRate           = 0.01
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		APIKey:             getEnvString("LANGSMITH_API_KEY", ""),
		Project:            getEnvString("LANGSMITH_PROJECT", "default"),
		Endpoint:           getEnvString("LANGSMITH_ENDPOINT", ""),
		ModelRatesPath:     getEnvString("MODEL_RATES_PATH", ""),
		RefreshInterval:    getEnvDuration("REFRESH_INTERVAL", defaultRefreshInterval),
		FetchTimeout:       getEnvDuration("FETCH_TIMEOUT", defaultFetchTimeout),
		BucketWidth:        getEnvDuration("BUCKET_WIDTH", defaultBucketWidth),
		RangeDays:          getEnvInt("RANGE_DAYS", defaultRangeDays),
		FreqThreshold:      getEnvInt("FREQ_THRESHOLD", defaultFreqThreshold),
		TokenThreshold:     getEnvFloat("TOKEN_THRESHOLD", defaultTokenThreshold),
		ErrorRateThreshold: getEnvFloat("ERROR_RATE_THRESHOLD", defaultErrorRateThreshold),
		DefaultCostRate:    getEnvFloat("DEFAULT_COST_RATE", defaultCostRate),
	}

	if cfg.APIKey == "" {
		return nil, &ConfigurationError{Field: "LANGSMITH_API_KEY", Reason: "is required"}
	}
	if cfg.BucketWidth <= 0 {
		return nil, &ConfigurationError{Field: "BUCKET_WIDTH", Reason: "must be positive"}
	}
	if cfg.DefaultCostRate <= 0 {
		return nil, &ConfigurationError{Field: "DEFAULT_COST_RATE", Reason: "must be positive"}
	}
	if cfg.ErrorRateThreshold < 0 || cfg.ErrorRateThreshold > 1 {
		return nil, &ConfigurationError{Field: "ERROR_RATE_THRESHOLD", Reason: "must be a fraction between 0 and 1"}
	}

	return cfg, nil
}

// loadDotEnv loads the first .env file found among the known locations.
func loadDotEnv() {
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "tracelens", ".env"),
			filepath.Join(home, ".tracelens", ".env"),
		)
	}

	// Parent directory (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(cwd), ".env"))
	}

	return paths
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns the default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
