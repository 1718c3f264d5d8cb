// Package config provides configuration loading and validation for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when the environment leaves a value unset.
const (
	DefaultPort      = 8080
	DefaultLogMode   = "dev"
	DefaultRunBudget = 52 * time.Second
)

// Config holds the service configuration. All values come from the
// environment; missing required values fail at startup rather than on first
// use.
type Config struct {
	Port        int
	DatabaseURL string
	GeminiKey   string
	BucketName  string
	// CredentialsFile is optional; empty falls back to application default
	// credentials.
	CredentialsFile string
	LogMode         string
	// RunBudget is the wall-clock ceiling for one document run, kept under
	// the platform's hard request limit.
	RunBudget time.Duration
	// ModelCascade overrides the default model variant priority order.
	ModelCascade []string
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            DefaultPort,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		GeminiKey:       os.Getenv("GEMINI_API_KEY"),
		BucketName:      os.Getenv("STORAGE_BUCKET"),
		CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		LogMode:         DefaultLogMode,
		RunBudget:       DefaultRunBudget,
	}

	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		cfg.Port = p
	}

	if mode := os.Getenv("LOG_MODE"); mode != "" {
		cfg.LogMode = mode
	}

	if budget := os.Getenv("RUN_BUDGET_SECONDS"); budget != "" {
		s, err := strconv.Atoi(budget)
		if err != nil {
			return nil, fmt.Errorf("invalid RUN_BUDGET_SECONDS: %w", err)
		}
		cfg.RunBudget = time.Duration(s) * time.Second
	}

	if cascade := os.Getenv("MODEL_CASCADE"); cascade != "" {
		for _, model := range strings.Split(cascade, ",") {
			if model = strings.TrimSpace(model); model != "" {
				cfg.ModelCascade = append(cfg.ModelCascade, model)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required values are present and ranges are sane.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: DATABASE_URL is required")
	}
	if c.GeminiKey == "" {
		return fmt.Errorf("config error: GEMINI_API_KEY is required")
	}
	if c.BucketName == "" {
		return fmt.Errorf("config error: STORAGE_BUCKET is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: port %d out of range", c.Port)
	}
	if c.RunBudget < 5*time.Second {
		return fmt.Errorf("config error: run budget %s too small to complete a model call", c.RunBudget)
	}
	return nil
}
