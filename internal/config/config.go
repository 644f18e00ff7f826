// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	CatalogPath string
	APIBaseURL  string
	Room        RoomConfig
	Journal     JournalConfig
	Mail        MailConfig
	Engine      EngineConfig
}

// RoomConfig controls the signaling connection for the agent worker.
type RoomConfig struct {
	URL  string
	Name string
}

// JournalConfig controls JSON-array persistence for interaction logs and
// the waitlist.
type JournalConfig struct {
	InteractionLogPath string
	WaitlistPath       string
	QueueSize          int
}

// MailConfig holds outbound SMTP relay settings.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

// EngineConfig holds conversational engine settings.
type EngineConfig struct {
	Model string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	queueSize := getEnvInt("JOURNAL_QUEUE_SIZE", 64)
	if queueSize <= 0 {
		queueSize = 64
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		CatalogPath: getEnv("CATALOG_PATH", "./data/products.json"),
		APIBaseURL:  getEnv("API_BASE_URL", "http://localhost:8080"),
		Room: RoomConfig{
			URL:  getEnv("ROOM_URL", ""),
			Name: getEnv("ROOM_NAME", "presenter"),
		},
		Journal: JournalConfig{
			InteractionLogPath: getEnv("INTERACTION_LOG_PATH", "./data/interaction_log.json"),
			WaitlistPath:       getEnv("WAITLIST_PATH", "./data/waitlist.json"),
			QueueSize:          queueSize,
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", "sandbox.smtp.mailtrap.io"),
			Port:     getEnvInt("SMTP_PORT", 2525),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			Sender:   getEnv("DEFAULT_MAIL_SENDER", ""),
		},
		Engine: EngineConfig{
			Model: getEnv("ENGINE_MODEL", "gpt-4o-mini"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.CatalogPath == "" {
		return fmt.Errorf("CATALOG_PATH cannot be empty")
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL cannot be empty")
	}
	if c.Journal.InteractionLogPath == "" {
		return fmt.Errorf("INTERACTION_LOG_PATH cannot be empty")
	}
	if c.Journal.WaitlistPath == "" {
		return fmt.Errorf("WAITLIST_PATH cannot be empty")
	}
	if c.Journal.QueueSize <= 0 {
		return fmt.Errorf("JOURNAL_QUEUE_SIZE must be > 0")
	}
	if c.Mail.Port <= 0 || c.Mail.Port > 65535 {
		return fmt.Errorf("SMTP_PORT must be a valid port number")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
