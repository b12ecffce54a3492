package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	TelegramToken string
	GeminiAPIKey  string
	GeminiModel   string
	CRMWebhookURL string
	MongoURI      string
	CatalogPath   string
	ClinicPhone   string
	AITimeout     time.Duration
}

// Load читает конфигурацию из переменных окружения.
// Отсутствие обязательного значения — фатальная ошибка запуска.
func Load() (*Config, error) {
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		CRMWebhookURL: os.Getenv("CRM_WEBHOOK_URL"),
		MongoURI:      os.Getenv("MONGO_URI"),
		CatalogPath:   getEnv("CATALOG_PATH", "catalog.yaml"),
		ClinicPhone:   getEnv("CLINIC_PHONE", "+998 71 200-00-00"),
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN не установлен в переменных окружения")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY не установлен в переменных окружения")
	}
	if cfg.CRMWebhookURL == "" {
		return nil, fmt.Errorf("CRM_WEBHOOK_URL не установлен в переменных окружения")
	}

	timeout := getEnv("AI_TIMEOUT", "20s")
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return nil, fmt.Errorf("некорректное значение AI_TIMEOUT %q: %w", timeout, err)
	}
	cfg.AITimeout = d

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
