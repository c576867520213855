package config

import (
	"fmt"
	"os"
	"strconv"
)

const defaultDatabasePath = "data/menu-planner.db"

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string
	GeminiAPIKey string

	// Telegram Config
	TelegramBotToken    string
	TelegramWebhookURL  string
	TelegramAllowUserID int64
}

// NewFromEnv creates a new Config object from environment variables.
// GEMINI_API_KEY is optional: without it the grocery-list service is
// simply reported as unavailable.
func NewFromEnv() (*Config, error) {
	dbPath := os.Getenv("MENU_PLANNER_DB_PATH")
	if dbPath == "" {
		dbPath = defaultDatabasePath
	}

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")

	// Telegram Config (optional for CLI, required for the bot)
	telegramBotToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	telegramWebhookURL := os.Getenv("TELEGRAM_WEBHOOK_URL")
	telegramAllowUserIDStr := os.Getenv("TELEGRAM_ALLOW_USER_ID")
	var telegramAllowUserID int64
	if telegramAllowUserIDStr != "" {
		var err error
		telegramAllowUserID, err = strconv.ParseInt(telegramAllowUserIDStr, 10, 64)
		if err != nil {
			// A typo here would silently lock out the only allowed
			// user, so fail loudly instead.
			return nil, fmt.Errorf("invalid TELEGRAM_ALLOW_USER_ID %q: %w", telegramAllowUserIDStr, err)
		}
	}

	return &Config{
		DatabasePath:        dbPath,
		GeminiAPIKey:        geminiAPIKey,
		TelegramBotToken:    telegramBotToken,
		TelegramWebhookURL:  telegramWebhookURL,
		TelegramAllowUserID: telegramAllowUserID,
	}, nil
}

// RequireTelegram validates the fields the bot entry point needs.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}
