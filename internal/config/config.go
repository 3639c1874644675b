package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sadopc/mediorg/internal/insight"
	"github.com/sadopc/mediorg/internal/logging"
	"github.com/sadopc/mediorg/internal/store"
)

type Config struct {
	// Storage
	DBPath string

	// Logging
	LogPath  string
	LogLevel string

	// Insights
	APIKey string
	Model  string
}

// Load reads the environment. Call godotenv.Load first to pick up a .env file.
func Load() *Config {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		dbPath = filepath.Join(".", "mediorg.db")
	}
	logPath, err := logging.DefaultLogPath()
	if err != nil {
		logPath = filepath.Join(".", "mediorg.log")
	}

	return &Config{
		DBPath:   getEnv("MEDIORG_DB_PATH", dbPath),
		LogPath:  getEnv("MEDIORG_LOG_PATH", logPath),
		LogLevel: getEnv("MEDIORG_LOG_LEVEL", "info"),
		APIKey:   getEnv("GEMINI_API_KEY", getEnv("API_KEY", "")),
		Model:    getEnv("GEMINI_MODEL", insight.DefaultModel),
	}
}

// Validate returns every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.DBPath) == "" {
		errors = append(errors, "database path cannot be empty")
	}
	if strings.TrimSpace(c.LogPath) == "" {
		errors = append(errors, "log path cannot be empty")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}
	if strings.TrimSpace(c.Model) == "" {
		errors = append(errors, "model name cannot be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// InsightsEnabled reports whether an API key is configured.
func (c *Config) InsightsEnabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
