package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/tutor_tracker_bot/internal/app"
	"github.com/Freeeeeet/tutor_tracker_bot/internal/config"
	"github.com/Freeeeeet/tutor_tracker_bot/internal/controller"
	"github.com/Freeeeeet/tutor_tracker_bot/internal/repository"
	"github.com/Freeeeeet/tutor_tracker_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("🚀 Starting tutor tracker bot",
		zap.String("environment", cfg.Environment))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключаемся к базе
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("✅ Connected to database")

	// Применяем миграции
	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	// Загружаем учеников и занятия в трекер
	store := repository.NewStore(pool, logger)
	tracker := service.NewTracker(store, service.NewRealClock(), logger)
	if err := tracker.Load(ctx); err != nil {
		logger.Fatal("Failed to load tracker state", zap.Error(err))
	}

	// Догенерируем занятия на старте
	created, err := tracker.Materialize(ctx, 14)
	if err != nil {
		logger.Error("Failed to materialize sessions on startup", zap.Error(err))
	} else if created > 0 {
		logger.Info("Materialized sessions on startup", zap.Int("created", created))
	}

	// Создаём бота
	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(b, tracker, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register handlers", zap.Error(err))
	}

	// Фоновые задачи: генерация занятий и напоминания
	notifier := controller.NewReminderNotifier(b, cfg.AdminChatID, logger)
	scheduler := app.NewScheduler(tracker, notifier, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logger.Info("✅ Bot is running")
	if err := botController.Start(ctx); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Bot stopped")
}
