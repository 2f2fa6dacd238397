package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"cadet_app_backend/db"
)

const (
	DatasetStatic = "static"
	DatasetRemote = "remote"
	DatasetDB     = "db"
)

type Config struct {
	Environment string
	ServerPort  string
	DBHost      string
	DBPort      int
	DBUser      string
	DBPassword  string
	DBName      string
	JWTSecret   string

	DatasetSource string
	DatasetURL    string
	DatasetToken  string
	DefaultTestID string

	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterModel   string

	SessionTTL time.Duration
}

// Load reads the configuration from the environment, loading a .env file first
// when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found") // Non-fatal in production
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	ttlMinutes, err := strconv.Atoi(getEnv("SESSION_TTL_MINUTES", "120"))
	if err != nil || ttlMinutes <= 0 {
		return nil, fmt.Errorf("invalid SESSION_TTL_MINUTES: %q", os.Getenv("SESSION_TTL_MINUTES"))
	}

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerPort:  getEnv("PORT", "8080"),
		DBHost:      getEnv("DB_HOST", "db"),
		DBPort:      dbPort,
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "postgres"),
		JWTSecret:   getEnv("JWT_SECRET", ""),

		DatasetSource: getEnv("DATASET_SOURCE", DatasetStatic),
		DatasetURL:    getEnv("DATASET_URL", ""),
		DatasetToken:  getEnv("DATASET_TOKEN", ""),
		DefaultTestID: getEnv("DEFAULT_TEST_ID", "military-professions"),

		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", "openai/gpt-4"),

		SessionTTL: time.Duration(ttlMinutes) * time.Minute,
	}

	if cfg.DBPassword == "" {
		return nil, fmt.Errorf("DB_PASSWORD environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	switch cfg.DatasetSource {
	case DatasetStatic, DatasetDB:
	case DatasetRemote:
		if cfg.DatasetURL == "" {
			return nil, fmt.Errorf("DATASET_URL is required when DATASET_SOURCE=%s", DatasetRemote)
		}
	default:
		return nil, fmt.Errorf("unknown DATASET_SOURCE %q", cfg.DatasetSource)
	}

	return cfg, nil
}

// Database returns the connection settings for the db package.
func (c *Config) Database() db.Config {
	return db.Config{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		DBName:   c.DBName,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
