package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// GetEnvOrDefault returns the value of an environment variable or a default value
func GetEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" && defaultValue == "" {
		log.Warn().Str("key", key).Msg("Empty value and default for environment variable")
	}
	if value == "" {
		return defaultValue
	}
	return value
}

func parseEnvDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(val)
	if err != nil || parsed < 0 {
		log.Warn().Str("key", key).Str("value", val).Dur("default", defaultValue).Msg("Invalid duration, using default")
		return defaultValue
	}

	return parsed
}

// parseEnvBool accepts anything strconv.ParseBool does plus yes/no and on/off
func parseEnvBool(key string, defaultValue bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultValue
	}

	switch strings.ToLower(val) {
	case "yes", "on":
		return true
	case "no", "off":
		return false
	}

	parsed, err := strconv.ParseBool(val)
	if err != nil {
		log.Warn().Str("key", key).Str("value", val).Bool("default", defaultValue).Msg("Invalid boolean, using default")
		return defaultValue
	}

	return parsed
}
