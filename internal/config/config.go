package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Storage  StorageConfig
	Reminder ReminderConfig
	Policy   PolicyConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type StorageConfig struct {
	BasePath   string
	BaseURL    string
	SignSecret string
}

// ReminderConfig drives the delayed-request sweep.
type ReminderConfig struct {
	// ThresholdDays is the number of business days a request may sit in
	// one stage before it counts as delayed.
	ThresholdDays int
	// SweepInterval is how often the full reminder sweep runs.
	SweepInterval time.Duration
	// ReNotifyInterval is the minimum gap before a second reminder for
	// the same stage is sent.
	ReNotifyInterval time.Duration
}

// PolicyConfig holds the rules the approval flow leaves configurable.
type PolicyConfig struct {
	// BlockNegativeQuota makes a final approval fail when it would
	// drive quota_remaining below zero; off, the approval succeeds and
	// a warning is attached.
	BlockNegativeQuota bool
	// RequireAttachmentReview blocks final approval while any
	// attachment on the request is still pending review.
	RequireAttachmentReview bool
}

func Load() (*Config, error) {
	// .env is optional outside development
	_ = godotenv.Load()

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "gestion_conges"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "8h"),
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "conges@example.org"),
		FromName: getEnv("SMTP_FROM_NAME", "Gestion des congés"),
	}

	config.Storage = StorageConfig{
		BasePath:   getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:    getEnv("STORAGE_BASE_URL", "http://localhost:8080/files"),
		SignSecret: getEnv("STORAGE_SIGN_SECRET", ""),
	}

	thresholdDays, err := strconv.Atoi(getEnv("REMINDER_THRESHOLD_DAYS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_THRESHOLD_DAYS: %w", err)
	}
	sweepInterval, err := time.ParseDuration(getEnv("REMINDER_SWEEP_INTERVAL", "4h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_SWEEP_INTERVAL: %w", err)
	}
	renotifyInterval, err := time.ParseDuration(getEnv("REMINDER_RENOTIFY_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_RENOTIFY_INTERVAL: %w", err)
	}

	config.Reminder = ReminderConfig{
		ThresholdDays:    thresholdDays,
		SweepInterval:    sweepInterval,
		ReNotifyInterval: renotifyInterval,
	}

	config.Policy = PolicyConfig{
		BlockNegativeQuota:      getEnvBool("POLICY_BLOCK_NEGATIVE_QUOTA", false),
		RequireAttachmentReview: getEnvBool("POLICY_REQUIRE_ATTACHMENT_REVIEW", false),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Storage.SignSecret == "" {
		return fmt.Errorf("STORAGE_SIGN_SECRET is required")
	}
	if c.Reminder.ThresholdDays < 1 {
		return fmt.Errorf("REMINDER_THRESHOLD_DAYS must be at least 1")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
