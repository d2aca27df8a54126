package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnvString(t *testing.T) {
	key := "TEST_ENV_STRING"
	val := "test_value"
	os.Setenv(key, val)
	defer os.Unsetenv(key)

	if got := getEnvString(key, "default"); got != val {
		t.Errorf("getEnvString() = %q, want %q", got, val)
	}

	if got := getEnvString("NON_EXISTENT", "default"); got != "default" {
		t.Errorf("getEnvString() = %q, want %q", got, "default")
	}
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_ENV_DURATION"

	tests := []struct {
		name       string
		envVal     string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"ValidDuration", "1m", time.Second, time.Minute},
		{"ValidSeconds", "60", time.Second, 60 * time.Second},
		{"Invalid", "invalid", time.Second, time.Second},
		{"Empty", "", time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnvDuration(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_ENV_INT"

	tests := []struct {
		name       string
		envVal     string
		defaultVal int
		want       int
	}{
		{"Valid", "42", 7, 42},
		{"Invalid", "not-a-number", 7, 7},
		{"Empty", "", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnvInt(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvInt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvFloat(t *testing.T) {
	key := "TEST_ENV_FLOAT"

	tests := []struct {
		name       string
		envVal     string
		defaultVal float64
		want       float64
	}{
		{"Valid", "0.75", 0.5, 0.75},
		{"Invalid", "half", 0.5, 0.5},
		{"Empty", "", 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnvFloat(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvFloat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvPaths(t *testing.T) {
	paths := getEnvPaths()
	if len(paths) == 0 {
		t.Error("getEnvPaths() returned empty list")
	}

	// Basic check that it contains current directory
	cwd, _ := os.Getwd()
	found := false
	for _, p := range paths {
		if p == filepath.Join(cwd, ".env") {
			found = true
			break
		}
	}
	if !found {
		t.Error("getEnvPaths() missing current directory .env")
	}
}

func TestLoad(t *testing.T) {
	os.Setenv("LANGSMITH_API_KEY", "test-key")
	defer os.Unsetenv("LANGSMITH_API_KEY")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIKey != "test-key" {
		t.Errorf("APIKey = %q, want test-key", cfg.APIKey)
	}
	if cfg.Project != "default" {
		t.Errorf("Project = %q, want default", cfg.Project)
	}
	if cfg.RefreshInterval != defaultRefreshInterval {
		t.Errorf("RefreshInterval = %v, want %v", cfg.RefreshInterval, defaultRefreshInterval)
	}
	if cfg.BucketWidth != defaultBucketWidth {
		t.Errorf("BucketWidth = %v, want %v", cfg.BucketWidth, defaultBucketWidth)
	}
	if cfg.FreqThreshold != defaultFreqThreshold {
		t.Errorf("FreqThreshold = %v, want %v", cfg.FreqThreshold, defaultFreqThreshold)
	}
}

func TestLoad_MissingAPIKey(t *testing.T) {
	os.Unsetenv("LANGSMITH_API_KEY")

	// Work from an empty directory so no local .env is picked up.
	tmpDir := t.TempDir()
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	os.Chdir(tmpDir)

	origHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", origHome)

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail without an API key")
	}
	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Errorf("error = %T, want *ConfigurationError", err)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"NegativeBucketWidth", "BUCKET_WIDTH", "-1h"},
		{"ZeroCostRate", "DEFAULT_COST_RATE", "0"},
		{"NegativeCostRate", "DEFAULT_COST_RATE", "-0.5"},
		{"ErrorRateAbove1", "ERROR_RATE_THRESHOLD", "1.5"},
		{"NegativeErrorRate", "ERROR_RATE_THRESHOLD", "-0.1"},
	}

	os.Setenv("LANGSMITH_API_KEY", "test-key")
	defer os.Unsetenv("LANGSMITH_API_KEY")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv(tt.key, tt.value)
			defer os.Unsetenv(tt.key)

			_, err := Load()
			var confErr *ConfigurationError
			if !errors.As(err, &confErr) {
				t.Errorf("Load() error = %v, want *ConfigurationError", err)
			}
		})
	}
}

func TestLoad_WithEnvFile(t *testing.T) {
	tmpDir := t.TempDir()
	envPath := filepath.Join(tmpDir, ".env")
	content := "LANGSMITH_API_KEY=env-key\nLANGSMITH_PROJECT=env-project"
	if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	// Change working directory to tmpDir so Load finds .env
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	os.Chdir(tmpDir)

	os.Unsetenv("LANGSMITH_API_KEY")
	os.Unsetenv("LANGSMITH_PROJECT")
	defer os.Unsetenv("LANGSMITH_API_KEY")
	defer os.Unsetenv("LANGSMITH_PROJECT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key", cfg.APIKey)
	}
	if cfg.Project != "env-project" {
		t.Errorf("Project = %q, want env-project", cfg.Project)
	}
}
