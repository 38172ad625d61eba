package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds all configuration for the nearby API
type Config struct {
	// Database
	DatabasePath string // SQLite dataset written by import-data
	DatabaseURL  string // PostgreSQL backend, used instead of SQLite when set

	// HTTP
	Port               string
	CORSAllowedOrigins []string
	RequestTimeout     time.Duration
	StaticDir          string

	// Search radii in meters for /transport_facilities
	StationRadius float64
	CycleRadius   float64

	// Observability
	Environment string
	LogLevel    zerolog.Level
	SentryDSN   string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		// Database
		DatabasePath: getEnv("SQLITE_DATABASE", "data/transport.db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		// HTTP
		Port:               getEnv("PORT", "8080"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RequestTimeout:     time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 5)) * time.Second,
		StaticDir:          getEnv("STATIC_DIR", ""),

		// Search radii
		StationRadius: getEnvFloat("STATION_RADIUS_METERS", 300),
		CycleRadius:   getEnvFloat("CYCLE_RADIUS_METERS", 150),

		// Observability
		Environment: getEnv("ENV", "production"),
		LogLevel:    getEnvLevel("LOG_LEVEL", zerolog.InfoLevel),
		SentryDSN:   getEnv("SENTRY_DSN", ""),
	}
}

// IsDevelopment reports whether the service runs on a developer machine
func (c *Config) IsDevelopment() bool {
	return c.Environment == "local" || c.Environment == "development"
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	// Setup console logger for development environments
	if c.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat only accepts finite positive values, radii being its only use
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 && f < 1e7 {
			return f
		}
		log.Warn().Str("key", key).Str("value", value).Msg("ignoring invalid number")
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

func getEnvLevel(key string, defaultValue zerolog.Level) zerolog.Level {
	if value := os.Getenv(key); value != "" {
		if level, err := zerolog.ParseLevel(value); err == nil {
			return level
		}
	}
	return defaultValue
}
