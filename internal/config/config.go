// Package config loads the application's configuration from environment
// variables and an optional .env file.
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application's configuration values.
type Config struct {
	ServerPort       string
	LogLevel         slog.Level
	LogFormat        string
	GitHubToken      string
	GeminiAPIKey     string
	GeminiBaseURL    string
	GeminiModel      string
	GeminiMaxRetries int
	GeminiTimeout    time.Duration
	CacheTTL         time.Duration
}

// LoadConfig reads configuration from environment variables and a .env file
// and sets sensible defaults. Both credentials are optional at startup: a
// missing GitHub token only lowers the rate limit, and a missing Gemini key
// fails lazily when an analysis is requested, so the stats endpoint keeps
// working.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")
	viper.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	viper.SetDefault("GEMINI_MAX_RETRIES", 2)
	viper.SetDefault("GEMINI_TIMEOUT", "2m")
	viper.SetDefault("CACHE_TTL", "1h")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("failed to read .env file, relying on environment", "error", err)
		}
	}

	if viper.GetString("GITHUB_TOKEN") == "" {
		slog.Warn("GITHUB_TOKEN not configured, GitHub rate limit drops to 60 req/h")
	}
	if viper.GetString("GEMINI_API_KEY") == "" {
		slog.Warn("GEMINI_API_KEY not configured, analysis requests will fail until it is set")
	}

	return &Config{
		ServerPort:       viper.GetString("SERVER_PORT"),
		LogLevel:         parseLogLevel(viper.GetString("LOG_LEVEL")),
		LogFormat:        viper.GetString("LOG_FORMAT"),
		GitHubToken:      viper.GetString("GITHUB_TOKEN"),
		GeminiAPIKey:     viper.GetString("GEMINI_API_KEY"),
		GeminiBaseURL:    viper.GetString("GEMINI_BASE_URL"),
		GeminiModel:      viper.GetString("GEMINI_MODEL"),
		GeminiMaxRetries: viper.GetInt("GEMINI_MAX_RETRIES"),
		GeminiTimeout:    viper.GetDuration("GEMINI_TIMEOUT"),
		CacheTTL:         viper.GetDuration("CACHE_TTL"),
	}, nil
}

// parseLogLevel maps a config string onto a slog.Level, defaulting to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		return slog.LevelInfo
	default:
		slog.Warn("unrecognized log level, defaulting to info", "provided", level)
		return slog.LevelInfo
	}
}
