package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up

	"tradeJournalBot/config"
	"tradeJournalBot/internal/adapters/logger"
	"tradeJournalBot/internal/adapters/sheets"
	"tradeJournalBot/internal/adapters/sqlite"
	"tradeJournalBot/internal/adapters/telegram"
	"tradeJournalBot/internal/app"
	"tradeJournalBot/internal/ports"
	"tradeJournalBot/internal/scheduler"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize the Journal Store (Repository Adapter)
	var repo ports.TradeRepository
	switch cfg.StoreBackend {
	case config.StoreSheets:
		sheetsRepo, err := sheets.NewRepository(context.Background(), sheets.Config{
			SpreadsheetID:   cfg.SpreadsheetID,
			SheetName:       cfg.SheetName,
			CredentialsJSON: cfg.Credentials,
			Logger:          appLogger,
			Location:        cfg.Location,
		})
		if err != nil {
			appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Google Sheets repository")
			log.Fatalf("FATAL: Failed to initialize Google Sheets repository: %v", err)
		}
		repo = sheetsRepo
	default:
		sqliteRepo, err := sqlite.NewRepository(sqlite.Config{
			DBPath: cfg.DBPath,
			Logger: appLogger,
		})
		if err != nil {
			appLogger.Error(context.Background(), err, "FATAL: Failed to initialize database repository")
			log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
		}
		defer func() {
			if err := sqliteRepo.Close(); err != nil {
				appLogger.Error(context.Background(), err, "Error closing database repository")
			}
		}()
		repo = sqliteRepo
	}
	appLogger.Info(context.Background(), "Journal store initialized", map[string]interface{}{"backend": cfg.StoreBackend})

	// 4. Initialize Application Service
	journalService, err := app.NewJournalService(appLogger, repo)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize journal service")
		log.Fatalf("FATAL: Failed to initialize journal service: %v", err)
	}
	appLogger.Info(context.Background(), "Journal service initialized")

	// 5. Initialize Telegram Bot (Chat Adapter)
	bot, err := telegram.New(telegram.Config{
		Token:       cfg.BotToken,
		AdminChatID: cfg.AdminChatID,
		Logger:      appLogger,
		Service:     journalService,
		Location:    cfg.Location,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Telegram bot")
		log.Fatalf("FATAL: Failed to initialize Telegram bot: %v", err)
	}
	appLogger.Info(context.Background(), "Telegram bot initialized")

	// 6. Initialize the Scheduled Risk Report
	sched, err := scheduler.New(scheduler.Config{
		Logger:   appLogger,
		Service:  journalService,
		Notifier: bot,
		Location: cfg.Location,
		Hours:    cfg.ReportHours,
		Minute:   cfg.ReportMinute,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize scheduler")
		log.Fatalf("FATAL: Failed to initialize scheduler: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// 7. Run the Bot
	// Use context.Background() as the base context for the application run
	if err := bot.Run(context.Background()); err != nil {
		appLogger.Error(context.Background(), err, "Bot exited with error")
		log.Fatalf("FATAL: Bot exited with error: %v", err)
	}

	appLogger.Info(context.Background(), "Application finished gracefully.")
}
