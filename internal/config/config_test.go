package config

import (
	"os"
	"strings"
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		os.Unsetenv("MENU_PLANNER_DB_PATH")
		os.Unsetenv("GEMINI_API_KEY")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "data/menu-planner.db" {
			t.Errorf("Expected default db path, got '%s'", cfg.DatabasePath)
		}
		if cfg.GeminiAPIKey != "" {
			t.Errorf("Expected empty Gemini key, got '%s'", cfg.GeminiAPIKey)
		}
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("MENU_PLANNER_DB_PATH", "/tmp/test.db")
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("TELEGRAM_ALLOW_USER_ID", "12345")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "/tmp/test.db" {
			t.Errorf("Expected '/tmp/test.db', got '%s'", cfg.DatabasePath)
		}
		if cfg.GeminiAPIKey != "gemini_key" {
			t.Errorf("Expected 'gemini_key', got '%s'", cfg.GeminiAPIKey)
		}
		if cfg.TelegramAllowUserID != 12345 {
			t.Errorf("Expected allow user id 12345, got %d", cfg.TelegramAllowUserID)
		}
	})

	t.Run("InvalidAllowUserID", func(t *testing.T) {
		t.Setenv("TELEGRAM_ALLOW_USER_ID", "not-a-number")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for invalid TELEGRAM_ALLOW_USER_ID, got nil")
		}
		if !strings.Contains(err.Error(), "TELEGRAM_ALLOW_USER_ID") {
			t.Errorf("Error does not name the offending variable: %v", err)
		}
	})
}

func TestRequireTelegram(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireTelegram(); err == nil {
		t.Fatal("Expected an error for missing TELEGRAM_BOT_TOKEN, got nil")
	}

	cfg.TelegramBotToken = "token"
	if err := cfg.RequireTelegram(); err == nil {
		t.Fatal("Expected an error for missing TELEGRAM_WEBHOOK_URL, got nil")
	}

	cfg.TelegramWebhookURL = "https://bot.test/webhook"
	if err := cfg.RequireTelegram(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}
