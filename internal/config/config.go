// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting.
type Config struct {
	DBPath string
	Addr   string

	// BusinessName is used in report filenames; DisplayName in messages.
	BusinessName string
	DisplayName  string

	FlushDelay time.Duration

	CountryCode    string
	DeveloperPhone string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	LogLevel string
}

// LoadDotEnv loads the given .env files (default ".env") into the process
// environment. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	delay, err := time.ParseDuration(getEnv("FLEXLEDGER_FLUSH_DELAY", "500ms"))
	if err != nil {
		return nil, fmt.Errorf("FLEXLEDGER_FLUSH_DELAY: %w", err)
	}

	cfg := &Config{
		DBPath:         getEnv("FLEXLEDGER_DB_PATH", "./data/flexledger.db"),
		Addr:           getEnv("FLEXLEDGER_ADDR", ":8080"),
		BusinessName:   getEnv("FLEXLEDGER_BUSINESS_NAME", "ShreeGanesh"),
		DisplayName:    getEnv("FLEXLEDGER_DISPLAY_NAME", "Shree Ganesh Flex & Advertising"),
		FlushDelay:     delay,
		CountryCode:    getEnv("FLEXLEDGER_COUNTRY_CODE", "91"),
		DeveloperPhone: getEnv("FLEXLEDGER_DEVELOPER_PHONE", "9960967852"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.FlushDelay <= 0 {
		return fmt.Errorf("FLEXLEDGER_FLUSH_DELAY must be positive, got %s", c.FlushDelay)
	}
	if strings.TrimSpace(c.BusinessName) == "" {
		return fmt.Errorf("FLEXLEDGER_BUSINESS_NAME is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("FLEXLEDGER_DB_PATH is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
