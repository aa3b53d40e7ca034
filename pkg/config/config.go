// Package config provides environment-based configuration for shellder.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Runtime backends.
const (
	RuntimeAPI = "api"
	RuntimeCLI = "cli"
)

// Config holds all configuration for shellder.
type Config struct {
	Runtime    RuntimeConfig
	Classifier ClassifierConfig
	Server     ServerConfig

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// RuntimeConfig selects and configures the container runtime.
type RuntimeConfig struct {
	// Backend is "api" for the Docker Engine API or "cli" for the docker binary.
	Backend        string
	DockerHost     string
	DockerBinary   string
	ComposeProject string
}

// ClassifierConfig holds the log classification settings.
type ClassifierConfig struct {
	RulesFile     string
	StartupWindow time.Duration
	Timezone      string
	// LogTail limits how many log lines are read. Zero reads everything.
	LogTail int
}

// ServerConfig holds the HTTP API settings used by "serve".
type ServerConfig struct {
	APIHost         string
	APIPort         int
	SessionTTL      time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := LoadWithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithDefaults reads configuration from environment variables without
// validating it.
func LoadWithDefaults() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			Backend:        getEnv("SHELLDER_RUNTIME", RuntimeAPI),
			DockerHost:     getEnv("DOCKER_HOST", ""),
			DockerBinary:   getEnv("SHELLDER_DOCKER_BIN", "docker"),
			ComposeProject: getEnv("SHELLDER_COMPOSE_PROJECT", ""),
		},
		Classifier: ClassifierConfig{
			RulesFile:     getEnv("SHELLDER_RULES_FILE", ""),
			StartupWindow: getDurationEnv("SHELLDER_STARTUP_WINDOW", 120*time.Second),
			Timezone:      getEnv("SHELLDER_TIMEZONE", "UTC"),
			LogTail:       getIntEnv("SHELLDER_LOG_TAIL", 0),
		},
		Server: ServerConfig{
			APIHost:         getEnv("SHELLDER_API_HOST", "127.0.0.1"),
			APIPort:         getIntEnv("SHELLDER_API_PORT", 8088),
			SessionTTL:      getDurationEnv("SHELLDER_SESSION_TTL", 30*time.Minute),
			ShutdownTimeout: getDurationEnv("SHELLDER_SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		LogLevel: getEnv("SHELLDER_LOG_LEVEL", "warn"),
	}
}

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	switch c.Runtime.Backend {
	case RuntimeAPI, RuntimeCLI:
	default:
		return fmt.Errorf("SHELLDER_RUNTIME must be %q or %q, got %q", RuntimeAPI, RuntimeCLI, c.Runtime.Backend)
	}
	if c.Runtime.Backend == RuntimeCLI && c.Runtime.DockerBinary == "" {
		return fmt.Errorf("SHELLDER_DOCKER_BIN is required for the cli runtime")
	}
	if c.Classifier.StartupWindow <= 0 {
		return fmt.Errorf("SHELLDER_STARTUP_WINDOW must be positive")
	}
	if c.Classifier.LogTail < 0 {
		return fmt.Errorf("SHELLDER_LOG_TAIL must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Server.APIPort < 1 || c.Server.APIPort > 65535 {
		return fmt.Errorf("SHELLDER_API_PORT must be between 1 and 65535")
	}
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("SHELLDER_SESSION_TTL must be positive")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Location returns the time zone used to interpret log timestamps.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Classifier.Timezone)
	if err != nil {
		return nil, fmt.Errorf("SHELLDER_TIMEZONE: %w", err)
	}
	return loc, nil
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("SHELLDER_LOG_LEVEL: %w", err)
	}
	return level, nil
}

// APIAddr returns the listen address of the HTTP API.
func (c *Config) APIAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.APIHost, c.Server.APIPort)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
