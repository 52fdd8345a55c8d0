// Package config loads process configuration from the environment.
package config

import (
	"log/slog"
	"os"
	"strings"
)

// Config is the full runtime configuration. Zero-value fields mean the
// feature is disabled (empty OpenAIKey runs the stub narrator, empty
// RedisAddr selects file storage).
type Config struct {
	Environment string
	LogLevel    slog.Level

	OpenAIKey   string
	OpenAIModel string

	RedisAddr string
	DataDir   string
	SavePath  string
}

func Load() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		OpenAIKey:   strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel: getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		DataDir:     getEnv("DATA_DIR", "."),
		SavePath:    getEnv("SAVE_PATH", "game_state.json"),
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
