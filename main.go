package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/QuickWebMaster/mediva-bot/internal/ai"
	"github.com/QuickWebMaster/mediva-bot/internal/appointment"
	"github.com/QuickWebMaster/mediva-bot/internal/bot"
	"github.com/QuickWebMaster/mediva-bot/internal/catalog"
	"github.com/QuickWebMaster/mediva-bot/internal/config"
	"github.com/QuickWebMaster/mediva-bot/internal/crm"
	"github.com/QuickWebMaster/mediva-bot/internal/database"
	"github.com/QuickWebMaster/mediva-bot/internal/dialogue"
	"github.com/QuickWebMaster/mediva-bot/internal/logger"
	"github.com/QuickWebMaster/mediva-bot/internal/reminder"
	"github.com/QuickWebMaster/mediva-bot/internal/services"
	"github.com/QuickWebMaster/mediva-bot/internal/session"
)

func main() {
	log := logger.New()
	defer log.Sync()

	// Загружаем переменные окружения
	if err := godotenv.Load(); err != nil {
		log.Info("Файл .env не найден, используем системные переменные")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	// Прайс-лист загружается один раз и дальше не меняется
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки прайс-листа: %v", err)
	}
	log.Infow("прайс-лист загружен", "позиций", len(cat.Lines()))

	// Хранилище сессий: MongoDB при заданном MONGO_URI, иначе память процесса
	var store session.Store = session.NewMemoryStore()
	var records appointment.RecordStore
	if cfg.MongoURI != "" {
		client, err := database.Connect(cfg.MongoURI)
		if err != nil {
			log.Fatalf("Ошибка подключения к MongoDB: %v", err)
		}
		defer client.Disconnect(context.Background())

		dbService := services.NewDatabaseService(client)
		store = dbService
		records = dbService
		log.Info("сессии и заявки сохраняются в MongoDB")
	} else {
		log.Info("MONGO_URI не задан, сессии хранятся в памяти")
	}

	gemini, err := ai.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("Ошибка создания клиента Gemini: %v", err)
	}
	defer gemini.Close()

	telegramBot, err := bot.New(cfg.TelegramToken, store, log)
	if err != nil {
		log.Fatalf("Ошибка создания бота: %v", err)
	}

	scheduler := reminder.New(telegramBot, log)
	defer scheduler.Stop()

	crmClient := crm.New(cfg.CRMWebhookURL, log)
	pipeline := appointment.NewPipeline(crmClient, scheduler, records, cfg.ClinicPhone, log)

	manager := dialogue.NewManager(cat, store, gemini, pipeline, cfg.AITimeout, log)
	dispatcher := dialogue.NewDispatcher(manager, telegramBot, log)
	telegramBot.AttachDispatcher(dispatcher)

	// Запуск бота в отдельной горутине
	go func() {
		log.Info("Бот запущен...")
		telegramBot.Start()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Завершение работы бота...")
	telegramBot.Stop()
	dispatcher.Stop()
}
