// Package config loads process configuration from the environment (and an
// optional .env file), the way the teacher's own config package reads its
// MORFX_* variables.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the CLI and store's runtime configuration.
type Config struct {
	StoreDSN   string
	StoreDebug bool

	LogLevel  string
	LogFormat string // "console" or "json"

	RegexCacheCapacity int
}

// LoadConfig loads an optional .env file (missing is not an error — a
// deployed binary is expected to get its environment from the process
// supervisor instead) and then reads LQLROUTE_* variables over top of
// sane defaults.
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		StoreDSN:           os.Getenv("LQLROUTE_STORE_DSN"),
		StoreDebug:         boolEnv("LQLROUTE_STORE_DEBUG", false),
		LogLevel:           os.Getenv("LQLROUTE_LOG_LEVEL"),
		LogFormat:          os.Getenv("LQLROUTE_LOG_FORMAT"),
		RegexCacheCapacity: 1024,
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}

	if capStr := os.Getenv("LQLROUTE_REGEX_CACHE_CAPACITY"); capStr != "" {
		if n, err := strconv.Atoi(capStr); err == nil && n > 0 {
			cfg.RegexCacheCapacity = n
		}
	}

	return cfg
}

func boolEnv(name string, def bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
