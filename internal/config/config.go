package config

import (
	"strings"
	"time"
)

const (
	DefaultAddr             = "127.0.0.1:3000"
	DefaultStreamTokenDelay = 50 * time.Millisecond
)

// Config is loaded once at startup and handed to the services that need it.
// Nothing mutates it afterwards.
type Config struct {
	Addr             string
	AuthEnabled      bool
	JWTSecret        []byte
	TokenLifetime    time.Duration
	StreamTokenDelay time.Duration
	LogLevel         string
	LogFormat        string
}

// Load reads the configuration from the environment
func Load() Config {
	return Config{
		Addr:             GetEnvOrDefault("MOCKLLM_ADDR", DefaultAddr),
		AuthEnabled:      parseEnvBool("AUTH_ENABLED", true),
		JWTSecret:        GetJWTSecret(),
		TokenLifetime:    GetTokenLifetime(),
		StreamTokenDelay: parseEnvDuration("STREAM_TOKEN_DELAY", DefaultStreamTokenDelay),
		LogLevel:         GetLogLevel(),
		LogFormat:        GetLogFormat(),
	}
}

// GetLogLevel is read on its own so logging can be set up before the rest of Load runs
func GetLogLevel() string {
	return strings.ToLower(GetEnvOrDefault("LOG_LEVEL", "info"))
}

func GetLogFormat() string {
	return strings.ToLower(GetEnvOrDefault("LOG_FORMAT", "console"))
}
