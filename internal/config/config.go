package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// OAuth
	AppBaseURL         string
	GitHubClientID     string
	GitHubClientSecret string
	SessionSecret      string
	SessionTTL         time.Duration

	// Development-only token used when no session is available
	DevGitHubToken string

	// Storage
	StorageType string // "sqlite" or "postgres"
	SQLitePath  string
	PostgresURL string

	// API Server
	APIPort string
	APIHost string

	// CLI
	GitHubToken string
	APIEndpoint string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		AppBaseURL:         getEnv("APP_BASE_URL", "http://localhost:8080"),
		GitHubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		SessionTTL:         time.Duration(getEnvInt("SESSION_TTL_HOURS", 24*7)) * time.Hour,
		DevGitHubToken:     getEnv("GITHUB_DEV_TOKEN", ""),
		StorageType:        getEnv("STORAGE_TYPE", "sqlite"),
		SQLitePath:         getEnv("SQLITE_PATH", "./sessions.db"),
		PostgresURL:        getEnv("POSTGRES_URL", ""),
		APIPort:            getEnv("API_PORT", "8080"),
		APIHost:            getEnv("API_HOST", "localhost"),
		GitHubToken:        getEnv("GITHUB_TOKEN", ""),
		APIEndpoint:        getEnv("API_ENDPOINT", "http://localhost:8080"),
	}, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default value
func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// Validate validates the configuration for running the API server
func (c *Config) Validate() error {
	if c.GitHubClientID == "" {
		return &ConfigError{Field: "GITHUB_CLIENT_ID", Message: "GitHub OAuth client id is required"}
	}
	if c.GitHubClientSecret == "" {
		return &ConfigError{Field: "GITHUB_CLIENT_SECRET", Message: "GitHub OAuth client secret is required"}
	}
	if c.SessionSecret == "" {
		return &ConfigError{Field: "SESSION_SECRET", Message: "session signing secret is required"}
	}
	if c.StorageType != "sqlite" && c.StorageType != "postgres" {
		return &ConfigError{Field: "STORAGE_TYPE", Message: "must be 'sqlite' or 'postgres'"}
	}
	if c.StorageType == "postgres" && c.PostgresURL == "" {
		return &ConfigError{Field: "POSTGRES_URL", Message: "PostgreSQL URL is required when STORAGE_TYPE is 'postgres'"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
