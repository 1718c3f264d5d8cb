package config

import (
	"fmt"
	"os"
	"time"
)

// defaultLeeway tolerates small clock drift between this service and the
// account service that mints the tokens.
const defaultLeeway = 30 * time.Second

// JWTConfig holds what is needed to verify bearer tokens. Tokens are minted
// by the external account service; only the shared HMAC secret lives here.
type JWTConfig struct {
	Secret string
	Issuer string
	Leeway time.Duration
}

// NewJWTConfig reads JWT verification settings from the environment:
// JWT_SECRET (required), JWT_ISSUER (optional expected issuer) and
// JWT_LEEWAY (optional duration, default 30s).
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	leeway := defaultLeeway
	if raw := os.Getenv("JWT_LEEWAY"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_LEEWAY: %v", err)
		}
		if d < 0 {
			return nil, fmt.Errorf("JWT_LEEWAY cannot be negative, got %s", d)
		}
		leeway = d
	}

	return &JWTConfig{
		Secret: secret,
		Issuer: os.Getenv("JWT_ISSUER"),
		Leeway: leeway,
	}, nil
}
