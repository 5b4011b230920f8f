package config

import (
	"os"
	"strconv"
	"time"

	"document-ingest/internal/domain"
)

// AppConfig implements the domain.Config interface. It is read once at
// startup and never mutated afterwards; tests construct their own instances
// instead of touching shared state.
type AppConfig struct {
	ServerPort    string
	LogLevel      string
	SupabaseURL   string
	SupabaseKey   string
	StorageBucket string

	MetagenBaseURL  string
	MetagenUsername string
	MetagenPassword string
	MetagenTimeout  time.Duration
	MetagenEnabled  bool
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:    getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		SupabaseURL:   getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:   getEnvOrDefault("SUPABASE_SERVICE_KEY", ""),
		StorageBucket: getEnvOrDefault("STORAGE_BUCKET", "documents"),

		MetagenBaseURL:  getEnvOrDefault("METAGEN_BASE_URL", "http://localhost:8080/metagen"),
		MetagenUsername: getEnvOrDefault("METAGEN_USERNAME", "username"),
		MetagenPassword: getEnvOrDefault("METAGEN_PASSWORD", "password"),
		MetagenTimeout:  time.Duration(getEnvIntOrDefault("METAGEN_TIMEOUT", 30)) * time.Second,
		MetagenEnabled:  getEnvBoolOrDefault("METAGEN_ENABLED", true),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase service key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetStorageBucket returns the file storage bucket name
func (c *AppConfig) GetStorageBucket() string {
	return c.StorageBucket
}

// GetMetagenBaseURL returns the metadata service base URL
func (c *AppConfig) GetMetagenBaseURL() string {
	return c.MetagenBaseURL
}

// GetMetagenUsername returns the metadata service username
func (c *AppConfig) GetMetagenUsername() string {
	return c.MetagenUsername
}

// GetMetagenPassword returns the metadata service password
func (c *AppConfig) GetMetagenPassword() string {
	return c.MetagenPassword
}

// GetMetagenTimeout returns the metadata service request timeout
func (c *AppConfig) GetMetagenTimeout() time.Duration {
	return c.MetagenTimeout
}

// IsMetagenEnabled reports whether the pipeline talks to the metadata service
func (c *AppConfig) IsMetagenEnabled() bool {
	return c.MetagenEnabled
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
