package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// app config, mostly AI provider and session pacing related
type Config struct {
	Provider string
	// SQLitePath is the durable store for the active session and the archive.
	SQLitePath string
	// DispatchInterval is the debounce between message dispatcher cycles.
	DispatchInterval time.Duration
	// AdvanceDelay is the pause between recording an answer and moving to the
	// next question, so the answer renders before the next prompt.
	AdvanceDelay time.Duration
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Provider:         getEnvOrDefault("AI_PROVIDER", "gemini"),
		SQLitePath:       getEnvOrDefault("SQLITE_PATH", "./intervue.db"),
		DispatchInterval: time.Duration(getEnvInt("DISPATCH_INTERVAL_MS", 500)) * time.Millisecond,
		AdvanceDelay:     time.Duration(getEnvInt("ADVANCE_DELAY_MS", 500)) * time.Millisecond,
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
	if config.DispatchInterval <= 0 {
		return errors.New("DISPATCH_INTERVAL_MS must be positive")
	}
	if config.AdvanceDelay <= 0 {
		return errors.New("ADVANCE_DELAY_MS must be positive")
	}
	// Gemini validation is handled by gemini.NewConfig()
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
