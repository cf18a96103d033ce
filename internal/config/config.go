package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// app config: grading provider, storage, question source and background jobs
type Config struct {
	Port           string
	Provider       string
	StoreDriver    string
	DatabaseURL    string
	SQLitePath     string
	QuestionSource string
	RedisURL       string
	ReaperEnabled  bool
	ReaperSchedule string
	SessionMaxIdle time.Duration
}

// loads configuration from environment variables, reading .env first when
// present; existing variables win over the file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		Provider:       getEnvOrDefault("AI_PROVIDER", "gemini"),
		StoreDriver:    getEnvOrDefault("STORE_DRIVER", "sqlite"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		SQLitePath:     getEnvOrDefault("SQLITE_PATH", "interview.db"),
		QuestionSource: getEnvOrDefault("QUESTION_SOURCE", "static"),
		RedisURL:       os.Getenv("REDIS_URL"),
		ReaperEnabled:  getEnvBool("REAPER_ENABLED", true),
		ReaperSchedule: getEnvOrDefault("REAPER_SCHEDULE", "@every 30m"),
		SessionMaxIdle: getEnvDuration("SESSION_MAX_IDLE", 2*time.Hour),
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Provider != "gemini" {
		return errors.New("unsupported AI provider: " + config.Provider + ". Currently supported: gemini")
	}
	// Gemini validation is handled by gemini.NewConfig()

	switch config.StoreDriver {
	case "postgres":
		if config.DatabaseURL == "" {
			return errors.New("STORE_DRIVER=postgres requires DATABASE_URL")
		}
	case "sqlite", "memory":
	default:
		return errors.New("unsupported store driver: " + config.StoreDriver + ". Currently supported: postgres, sqlite, memory")
	}

	switch config.QuestionSource {
	case "static", "mongo":
	default:
		return errors.New("unsupported question source: " + config.QuestionSource + ". Currently supported: static, mongo")
	}

	if config.SessionMaxIdle <= 0 {
		return errors.New("SESSION_MAX_IDLE must be a positive duration")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
