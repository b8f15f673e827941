package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults for every tunable.
const (
	DefaultDBType    = "sqlite"
	DefaultDBDSN     = "data/srsengine.db"
	DefaultMinEase   = 1.3
	DefaultMaxEase   = 2.5
	DefaultStartHour = 8
	DefaultEndHour   = 22
	DefaultLogLevel  = "info"
)

// Config carries the process configuration. MinEase/MaxEase are the
// only tunables the scheduling core recognizes; everything else
// configures the surrounding service.
type Config struct {
	DBType string
	DBDSN  string

	MinEase float64
	MaxEase float64

	NotificationStartHour int
	NotificationEndHour   int

	LogLevel string
}

// Load reads configuration from a .env file (if present) and the
// environment. Missing or malformed values fall back to defaults;
// inverted ease bounds are rejected as a pair.
func Load() *Config {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	cfg := &Config{
		DBType:                envString("DB_TYPE", DefaultDBType),
		DBDSN:                 envString("DB_DSN", DefaultDBDSN),
		MinEase:               envFloat("MIN_EASE", DefaultMinEase),
		MaxEase:               envFloat("MAX_EASE", DefaultMaxEase),
		NotificationStartHour: envHour("NOTIFICATION_START_HOUR", DefaultStartHour),
		NotificationEndHour:   envHour("NOTIFICATION_END_HOUR", DefaultEndHour),
		LogLevel:              envString("LOG_LEVEL", DefaultLogLevel),
	}

	if cfg.MinEase <= 0 || cfg.MaxEase <= 0 || cfg.MinEase >= cfg.MaxEase {
		cfg.MinEase = DefaultMinEase
		cfg.MaxEase = DefaultMaxEase
	}
	return cfg
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envHour(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	h, err := strconv.Atoi(v)
	if err != nil || h < 0 || h > 23 {
		return fallback
	}
	return h
}
