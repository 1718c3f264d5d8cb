package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Rule throttles one endpoint. A Path ending in "/" matches by prefix,
// anything else matches exactly. Limit <= 0 means the endpoint is unlimited.
type Rule struct {
	Path   string
	Method string
	Limit  int           // requests per Window
	Window time.Duration
	Burst  int           // bucket capacity; defaults to Limit when 0
}

// Config drives the limiter.
type Config struct {
	Enabled       bool
	Default       Rule // applied when no rule matches
	Rules         []Rule
	SweepInterval time.Duration // how often idle buckets are dropped
	Exempt        map[string]bool
	Blocked       map[string]bool
}

// DefaultRules returns the per-endpoint limits.
func DefaultRules() []Rule {
	return []Rule{
		// Document runs invoke the model cascade, so they get the strictest limit.
		{Path: "/documents/process", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
	}
}

// LoadConfig reads limiter settings from the environment. With
// RATE_LIMIT_ENABLED=false the limiter passes everything through.
func LoadConfig() *Config {
	if !envBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled: true,
		Default: Rule{
			Limit:  envInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
			Window: envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		},
		Rules:         DefaultRules(),
		SweepInterval: envDuration("RATE_LIMIT_SWEEP_INTERVAL", 5*time.Minute),
		Exempt:        clientSet(os.Getenv("RATE_LIMIT_EXEMPT")),
		Blocked:       clientSet(os.Getenv("RATE_LIMIT_BLOCKED")),
	}
}

// match resolves the rule for a request. Health checks are never limited;
// exact rules win over prefix rules.
func (c *Config) match(path, method string) Rule {
	if path == "/health" {
		return Rule{}
	}
	for _, r := range c.Rules {
		if r.Method == method && r.Path == path {
			return r
		}
	}
	for _, r := range c.Rules {
		if r.Method == method && strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			return r
		}
	}
	return c.Default
}

func envBool(key string, fallback bool) bool {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			return v
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if v, err := time.ParseDuration(raw); err == nil {
			return v
		}
	}
	return fallback
}

// clientSet parses a comma-separated list of client IDs.
func clientSet(raw string) map[string]bool {
	set := make(map[string]bool)
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = true
		}
	}
	return set
}
