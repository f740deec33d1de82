package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"parlay/database"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string
	GuildID      string

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Ledger configuration
	StartingTokens int64
	MinWager       int64
	MaxWager       int64
	MaxLegs        int // questions one ticket may combine

	// Leaderboard configuration
	LeaderboardTimezone string // IANA zone used for the "daily" window midnight
	LeaderboardLimit    int

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated), empty disables publishing

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelServiceName          string
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelExportIntervalMillis int

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// Location returns the timezone used to compute the daily leaderboard window.
// Unknown zones fall back to UTC.
func (c *Config) Location() *time.Location {
	if c.LeaderboardTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.LeaderboardTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// load loads configuration from environment variables, reading a .env file first when present
func load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		GuildID:      os.Getenv("GUILD_ID"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		StartingTokens: getInt64WithDefault("STARTING_TOKENS", 5),
		MinWager:       getInt64WithDefault("MIN_WAGER", 1),
		MaxWager:       getInt64WithDefault("MAX_WAGER", 5),
		MaxLegs:        int(getInt64WithDefault("MAX_LEGS", 10)),

		LeaderboardTimezone: getEnvWithDefault("LEADERBOARD_TIMEZONE", "UTC"),
		LeaderboardLimit:    int(getInt64WithDefault("LEADERBOARD_LIMIT", 100)),

		NATSServers: os.Getenv("NATS_SERVERS"),

		OTelEnabled:              os.Getenv("OTEL_ENABLED") == "true",
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "parlay"),
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelExportIntervalMillis: int(getInt64WithDefault("OTEL_EXPORT_INTERVAL_MILLIS", 30000)),

		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.MinWager < 1 {
		return nil, fmt.Errorf("MIN_WAGER must be at least 1, got %d", config.MinWager)
	}
	if config.MaxWager < config.MinWager {
		return nil, fmt.Errorf("MAX_WAGER (%d) must not be below MIN_WAGER (%d)", config.MaxWager, config.MinWager)
	}
	if config.MaxLegs < 1 {
		return nil, fmt.Errorf("MAX_LEGS must be at least 1, got %d", config.MaxLegs)
	}
	if config.StartingTokens < 0 {
		return nil, fmt.Errorf("STARTING_TOKENS cannot be negative")
	}

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:         "test",
		DiscordToken:        "test-token",
		StartingTokens:      5,
		MinWager:            1,
		MaxWager:            5,
		MaxLegs:             10,
		LeaderboardTimezone: "UTC",
		LeaderboardLimit:    100,
		OTelServiceName:     "parlay-test",
		OTelExporterType:    "none",
		LogLevel:            "debug",
	}
}
