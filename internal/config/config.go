package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Server  ServerConfig
	Slack   SlackConfig
	Extract ExtractConfig
	Ollama  OllamaConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
}

// SlackConfig holds Slack API configuration
type SlackConfig struct {
	// Token is the bearer credential. Never log it in full; use MaskToken.
	Token   string
	BaseURL string
}

// ExtractConfig holds extraction tuning and scheduling configuration
type ExtractConfig struct {
	PageSize       int
	MaxRetries     int
	InitialBackoff time.Duration
	ReplyCap       int
	MaxThreads     int

	// Schedule is a cron expression; when set together with Channels,
	// the server runs recurring extractions covering the last WindowDays
	// days and writes CSV files into OutputDir.
	Schedule   string
	Channels   []string
	WindowDays int
	OutputDir  string
}

// OllamaConfig holds configuration for the optional summarization step
type OllamaConfig struct {
	URL   string
	Model string
}

// Load loads configuration from the environment, reading a .env file first
// when one is present.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", ""),
		},
		Slack: SlackConfig{
			Token:   getEnv("SLACK_BOT_TOKEN", ""),
			BaseURL: getEnv("SLACK_API_BASE_URL", "https://slack.com/api"),
		},
		Extract: ExtractConfig{
			PageSize:       getEnvInt("EXTRACT_PAGE_SIZE", 200),
			MaxRetries:     getEnvInt("EXTRACT_MAX_RETRIES", 5),
			InitialBackoff: time.Duration(getEnvInt("EXTRACT_INITIAL_BACKOFF_MS", 1000)) * time.Millisecond,
			ReplyCap:       getEnvInt("EXTRACT_REPLY_CAP", 1000),
			MaxThreads:     getEnvInt("EXTRACT_MAX_THREADS", 0),
			Schedule:       getEnv("EXTRACT_SCHEDULE", ""),
			Channels:       splitList(getEnv("EXTRACT_CHANNELS", "")),
			WindowDays:     getEnvInt("EXTRACT_WINDOW_DAYS", 1),
			OutputDir:      getEnv("EXTRACT_OUTPUT_DIR", "."),
		},
		Ollama: OllamaConfig{
			URL:   getEnv("OLLAMA_URL", "http://localhost:11434"),
			Model: getEnv("OLLAMA_MODEL", "llama3:8b"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration. Configuration errors are the only
// errors that abort before any network activity.
func (c *Config) Validate() error {
	if c.Server.Port != "" {
		port, err := strconv.Atoi(c.Server.Port)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("invalid port: %s", c.Server.Port)
		}
	}

	if c.Extract.PageSize < 1 || c.Extract.PageSize > 1000 {
		return fmt.Errorf("invalid page size: %d", c.Extract.PageSize)
	}

	if c.Extract.MaxRetries < 1 {
		return fmt.Errorf("invalid max retries: %d", c.Extract.MaxRetries)
	}

	if c.Extract.Schedule != "" {
		if c.Slack.Token == "" {
			return fmt.Errorf("EXTRACT_SCHEDULE requires SLACK_BOT_TOKEN")
		}
		if len(c.Extract.Channels) == 0 {
			return fmt.Errorf("EXTRACT_SCHEDULE requires EXTRACT_CHANNELS")
		}
	}

	return nil
}

// MaskToken renders a credential safe for logs: first 10 and last 4
// characters only.
func MaskToken(token string) string {
	if len(token) <= 14 {
		return "****"
	}
	return token[:10] + "..." + token[len(token)-4:]
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a fallback default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
