// Package config loads the Core API configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backend selectors.
const (
	StorageJSONFile = "jsonfile"
	StoragePostgres = "postgres"
)

// Config holds the application configuration
type Config struct {
	Port        int    `validate:"gt=0,lte=65535"`
	APIKey      string `validate:"required"`
	LogLevel    string `validate:"oneof=debug info warn warning error"`
	LogFormat   string `validate:"oneof=json text"`
	ServiceName string `validate:"required"`
	Version     string
	Environment string `validate:"oneof=dev staging prod test"`

	// Storage selects the quest store backend.
	Storage  string `validate:"oneof=jsonfile postgres"`
	DataPath string // jsonfile backend: path of the snapshot file

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// TrustedProxies lists proxy IPs whose X-Forwarded-For headers are
	// honoured when attributing client addresses.
	TrustedProxies []string

	// SystemsPath points at the game-system keyword pool (TOML).
	SystemsPath string

	// DeadLetterPath receives events that exhausted publish retries.
	DeadLetterPath string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:         getEnv("API_KEY", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		ServiceName:    getEnv("SERVICE_NAME", "questboard"),
		Version:        getEnv("SERVICE_VERSION", "dev"),
		Environment:    getEnv("ENVIRONMENT", "dev"),
		Storage:        getEnv("STORAGE_BACKEND", StorageJSONFile),
		DataPath:       getEnv("DATA_PATH", "data/quests.json"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBName:         getEnv("DB_NAME", "questboard"),
		SystemsPath:    getEnv("SYSTEMS_CONFIG", "configs/systems.toml"),
		DeadLetterPath: getEnv("DEAD_LETTER_PATH", "data/deadletter.jsonl"),
	}

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		for _, p := range strings.Split(proxies, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.TrustedProxies = append(cfg.TrustedProxies, p)
			}
		}
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
