package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	DetectorURL   string        // адрес внешней модели детекции; пусто — локальный gocv-детектор
	OpenAIKey     string        // ключ для описателя отчётов; пусто — без описаний
	OpenAIModel   string
	SessionTTL    time.Duration // срок хранения завершённых сессий
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		DetectorURL:   os.Getenv("DETECTOR_URL"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   os.Getenv("OPENAI_MODEL"),
		SessionTTL:    24 * time.Hour,
	}

	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, err
		}
		cfg.SessionTTL = ttl
	}

	return cfg, nil
}
