package config

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultJWTSecret is only meant for local development.
	DefaultJWTSecret     = "your-super-secret-and-long-key"
	DefaultTokenLifetime = time.Hour
)

// GetJWTSecret returns the secret used to sign and verify bearer tokens.
// It falls back to DefaultJWTSecret when JWT_SECRET is unset.
func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Warn().Msg("JWT_SECRET not set - using the built-in development secret")
		return []byte(DefaultJWTSecret)
	}
	return []byte(secret)
}

// GetTokenLifetime returns how long issued tokens stay valid
func GetTokenLifetime() time.Duration {
	return parseEnvDuration("TOKEN_LIFETIME", DefaultTokenLifetime)
}
