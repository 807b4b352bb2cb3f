package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// SSOT: every environment variable is read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Learning platform databases
	MyKG      DatabaseConfig
	Discovery DatabaseConfig

	// Google Sheets sources
	Sheets SheetsConfig

	// Redis (response cache + refresh rate limit)
	Redis RedisConfig

	// Snapshot cache
	SnapshotTTL time.Duration

	// Per-unit learning-hour target multipliers, keyed by unit name.
	// Units absent from the map target one hour per month.
	HourMultipliers map[string]float64

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds one platform database connection.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// SheetsConfig holds Google Sheets source configuration.
// The roster sheet is the monthly SAP active-employee export; the
// manual sheet collects uploads from platforms without a database.
type SheetsConfig struct {
	CredentialsFile   string
	RosterSpreadsheet string
	RosterRange       string
	ManualSpreadsheet string
	ManualRange       string
	RosterCSVURL      string // published-CSV fallback when no credentials
	RequestsPerMinute int
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// Load reads configuration from environment variables.
// SSOT: this is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		MyKG: DatabaseConfig{
			URL:             getEnv("MYKG_DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("MYKG_DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("MYKG_DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("MYKG_DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("MYKG_DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Discovery: DatabaseConfig{
			URL:             getEnv("DISCOVERY_DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DISCOVERY_DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DISCOVERY_DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DISCOVERY_DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DISCOVERY_DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Sheets: SheetsConfig{
			CredentialsFile:   getEnv("SHEETS_CREDENTIALS_FILE", ""),
			RosterSpreadsheet: getEnv("ROSTER_SPREADSHEET_ID", ""),
			RosterRange:       getEnv("ROSTER_RANGE", "Sheet1"),
			ManualSpreadsheet: getEnv("MANUAL_SPREADSHEET_ID", ""),
			ManualRange:       getEnv("MANUAL_RANGE", "Sheet1"),
			RosterCSVURL:      getEnv("ROSTER_CSV_URL", ""),
			RequestsPerMinute: getEnvAsInt("SHEETS_REQUESTS_PER_MINUTE", 50),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		SnapshotTTL: getEnvAsDuration("SNAPSHOT_TTL", "30m"),

		HourMultipliers: getEnvAsFloatMap("HOUR_UNIT_MULTIPLIERS"),

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	// The roster has to come from somewhere: either the Sheets API or a
	// published CSV URL. Platform databases are allowed to be absent
	// (a missing source degrades coverage, it does not block startup).
	if c.Sheets.RosterSpreadsheet == "" && c.Sheets.RosterCSVURL == "" {
		return fmt.Errorf("ROSTER_SPREADSHEET_ID or ROSTER_CSV_URL is required")
	}

	if c.SnapshotTTL <= 0 {
		return fmt.Errorf("SNAPSHOT_TTL must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsFloatMap parses "Key A=2,Key B=0.5" style values. Malformed
// entries are dropped rather than failing startup.
func getEnvAsFloatMap(key string) map[string]float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}

	out := make(map[string]float64)
	for _, pair := range strings.Split(valueStr, ",") {
		name, raw, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || value <= 0 {
			continue
		}
		out[strings.TrimSpace(name)] = value
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
