// Package config handles loading and validating configuration from
// environment variables, with optional .env file support.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/marketbrief/ideawatch/internal/secrets"
)

// Config holds all application configuration
type Config struct {
	// Environment
	Environment string

	// Telegram
	TelegramBotToken   string
	TelegramAPIBaseURL string

	// News feed
	NewsAPIKey     string
	NewsAPIBaseURL string
	NewsCountry    string

	// Market listing service
	ListingAPIBaseURL string
	ListingPageSize   int
	ListingRPS        float64

	// Crypto price feed
	PriceAPIBaseURL string

	// Scheduling
	PollInterval time.Duration
	WarmupDelay  time.Duration

	// Idea generation
	IdeaCacheSize int

	// Price alerts
	AlertThreshold float64
	AlertMode      string // log, telegram, discord, smtp (comma-combinable)

	// Discord
	DiscordWebhookURL string

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	SMTPTo       []string

	// Logging
	LogLevel          string
	LogFile           string
	LogFileMaxSizeMB  int
	LogFileMaxBackups int

	// Metrics/Health
	HealthPort int
}

// Load reads configuration from environment variables with fallback to a
// .env file. Priority order: environment variables > .env file > defaults.
func Load() (*Config, error) {
	// Attempt to load .env file (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Environment:        getEnv("ENVIRONMENT", "production"),
		TelegramBotToken:   secrets.GetOptionalSecret("TELEGRAM_BOT_TOKEN", ""),
		TelegramAPIBaseURL: getEnv("TELEGRAM_API_BASE_URL", "https://api.telegram.org"),
		NewsAPIKey:         secrets.GetOptionalSecret("NEWS_API_KEY", ""),
		NewsAPIBaseURL:     getEnv("NEWS_API_BASE_URL", "https://newsapi.org"),
		NewsCountry:        getEnv("NEWS_COUNTRY", "us"),
		ListingAPIBaseURL:  getEnv("LISTING_API_BASE_URL", "https://gamma-api.polymarket.com"),
		ListingPageSize:    getEnvInt("LISTING_PAGE_SIZE", 50),
		ListingRPS:         getEnvFloat("LISTING_RPS", 5.0),
		PriceAPIBaseURL:    getEnv("PRICE_API_BASE_URL", "https://api.coingecko.com"),
		PollInterval:       time.Duration(getEnvInt("POLL_INTERVAL_SEC", 600)) * time.Second,
		WarmupDelay:        time.Duration(getEnvInt("WARMUP_DELAY_SEC", 30)) * time.Second,
		IdeaCacheSize:      getEnvInt("IDEA_CACHE_SIZE", 50),
		AlertThreshold:     getEnvFloat("ALERT_THRESHOLD", 0.05),
		AlertMode:          getEnv("ALERT_MODE", "telegram"),
		DiscordWebhookURL:  secrets.GetOptionalSecret("DISCORD_WEBHOOK_URL", ""),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnvInt("SMTP_PORT", 587),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPassword:       secrets.GetOptionalSecret("SMTP_PASSWORD", ""),
		SMTPFrom:           getEnv("SMTP_FROM", "ideawatch@example.com"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFile:            getEnv("LOG_FILE", ""),
		LogFileMaxSizeMB:   getEnvInt("LOG_FILE_MAX_SIZE_MB", 100),
		LogFileMaxBackups:  getEnvInt("LOG_FILE_MAX_BACKUPS", 3),
		HealthPort:         getEnvInt("HEALTH_PORT", 8080),
	}

	// Parse SMTP_TO (comma-separated)
	if smtpTo := getEnv("SMTP_TO", ""); smtpTo != "" {
		cfg.SMTPTo = parseCSV(smtpTo)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration for errors
func (c *Config) Validate() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	if c.PollInterval < time.Second {
		return fmt.Errorf("POLL_INTERVAL_SEC must be at least 1")
	}

	if c.AlertThreshold <= 0 {
		return fmt.Errorf("ALERT_THRESHOLD must be positive")
	}

	if c.IdeaCacheSize < 1 {
		return fmt.Errorf("IDEA_CACHE_SIZE must be at least 1")
	}

	if c.ListingPageSize < 1 {
		return fmt.Errorf("LISTING_PAGE_SIZE must be at least 1")
	}

	if c.HealthPort < 1 || c.HealthPort > 65535 {
		return fmt.Errorf("HEALTH_PORT must be between 1 and 65535")
	}

	// Validate alert mode (comma-separated list)
	hasDiscord := false
	hasSMTP := false

	for _, mode := range strings.Split(c.AlertMode, ",") {
		switch strings.TrimSpace(mode) {
		case "log", "telegram":
		case "discord":
			hasDiscord = true
		case "smtp":
			hasSMTP = true
		default:
			return fmt.Errorf("invalid ALERT_MODE value: %s (valid values: log, telegram, discord, smtp)", mode)
		}
	}

	if hasDiscord && c.DiscordWebhookURL == "" {
		return fmt.Errorf("DISCORD_WEBHOOK_URL is required when discord is in ALERT_MODE")
	}

	if hasSMTP && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST is required when smtp is in ALERT_MODE")
	}

	return nil
}

// MaskedTelegramToken returns the bot token with most characters hidden for logging.
func (c *Config) MaskedTelegramToken() string {
	return maskSecret(c.TelegramBotToken)
}

// MaskedNewsAPIKey returns the news credential with most characters hidden for logging.
func (c *Config) MaskedNewsAPIKey() string {
	return maskSecret(c.NewsAPIKey)
}

func maskSecret(s string) string {
	if len(s) <= 8 {
		if len(s) == 0 {
			return "(not set)"
		}
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func parseCSV(s string) []string {
	var result []string
	for _, item := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
