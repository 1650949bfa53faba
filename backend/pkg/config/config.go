package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"entity-graph/backend/internal/constants"
	apperrors "entity-graph/backend/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Dataset
	DatasetPath  string
	DatasetSheet string // empty means the first sheet of a workbook

	// HTTP
	AllowedOrigins  []string
	MetricsEnabled  bool
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", constants.DefaultPort),
		Env:             getEnv("ENV", constants.EnvDevelopment),
		DatasetPath:     getEnv("DATASET_PATH", constants.DefaultDatasetPath),
		DatasetSheet:    getEnv("DATASET_SHEET", ""),
		AllowedOrigins:  getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		MetricsEnabled:  getEnvBool("METRICS_ENABLED", true),
		ReadTimeout:     getEnvDuration("READ_TIMEOUT", constants.DefaultReadTimeout),
		WriteTimeout:    getEnvDuration("WRITE_TIMEOUT", constants.DefaultWriteTimeout),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", constants.DefaultShutdownTimeout),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Port == "" {
		return apperrors.NewConfigMissingRequired("PORT")
	}
	if c.DatasetPath == "" {
		return apperrors.NewConfigMissingRequired("DATASET_PATH")
	}
	switch c.Env {
	case constants.EnvDevelopment, constants.EnvProduction, constants.EnvTest:
	default:
		return apperrors.NewConfigValidationFailed("ENV", "must be development, production or test")
	}
	if c.ShutdownTimeout <= 0 {
		return apperrors.NewConfigValidationFailed("SHUTDOWN_TIMEOUT", "must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == constants.EnvDevelopment
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == constants.EnvProduction
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
