package main

import (
	"log"
	"time"

	"inspect-bot/config"
	telegram "inspect-bot/internal/api"
	"inspect-bot/internal/container"
	"inspect-bot/internal/domain/entity"
	"inspect-bot/internal/domain/port"
	"inspect-bot/internal/infrastructure/describe"
	"inspect-bot/internal/infrastructure/storage"
	"inspect-bot/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	// Создаём хранилища пользователей и сессий
	userRepo := storage.NewMemoryUserRepository()
	sessionRepo := storage.NewCacheSessionRepository(cfg.SessionTTL)

	// Выбираем детектор: внешняя модель или локальный gocv
	var detector port.DamageDetector
	if cfg.DetectorURL != "" {
		detector = vision.NewRemoteDetector(cfg.DetectorURL, 60*time.Second)
		log.Printf("Using remote detector at %s", cfg.DetectorURL)
	} else {
		detector = vision.NewGoCVDetector()
		log.Println("Using local gocv detector")
	}

	// Описатель отчётов опционален
	var describer port.DamageDescriber
	if cfg.OpenAIKey != "" {
		describer, err = describe.NewOpenAIDescriber(cfg.OpenAIKey, cfg.OpenAIModel)
		if err != nil {
			log.Fatalf("Failed to create describer: %v", err)
		}
	}

	// Собираем сервисы приложения
	appContainer := container.New(userRepo, sessionRepo, detector, describer, entity.DefaultCostTable())

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	log.Println("Bot is running...")
	if err := bot.Run(); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
}
