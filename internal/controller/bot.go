package controller

import (
	"context"

	"github.com/Freeeeeet/tutor_tracker_bot/internal/controller/handlers"
	"github.com/Freeeeeet/tutor_tracker_bot/internal/controller/state"
	"github.com/Freeeeeet/tutor_tracker_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(botInstance *bot.Bot, tracker *service.Tracker, logger *zap.Logger) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager()

	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(tracker, stateManager, logger)

	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Общие команды
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Расписание
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/today", bot.MatchTypeExact, c.handlers.HandleToday)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/date", bot.MatchTypePrefix, c.handlers.HandleDate)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/week", bot.MatchTypeExact, c.handlers.HandleWeek)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/generate", bot.MatchTypeExact, c.handlers.HandleGenerate)

	// Ученики
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/students", bot.MatchTypeExact, c.handlers.HandleStudents)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addstudent", bot.MatchTypeExact, c.handlers.HandleAddStudent)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/retime", bot.MatchTypeExact, c.handlers.HandleRetime)

	// Деньги
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/pay", bot.MatchTypeExact, c.handlers.HandlePay)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/income", bot.MatchTypePrefix, c.handlers.HandleIncome)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/report", bot.MatchTypeExact, c.handlers.HandleReport)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypeExact, c.handlers.HandleStats)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.handlers.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "today", Description: "📅 Занятия на сегодня"},
		{Command: "date", Description: "🗓 Занятия на дату"},
		{Command: "week", Description: "🖼 Неделя картинкой"},
		{Command: "students", Description: "👥 Список учеников"},
		{Command: "addstudent", Description: "➕ Добавить ученика"},
		{Command: "retime", Description: "🔧 Изменить расписание ученика"},
		{Command: "pay", Description: "💵 Записать оплату"},
		{Command: "income", Description: "💰 Доход за день"},
		{Command: "report", Description: "🧾 Финансовый отчёт"},
		{Command: "stats", Description: "📊 Общая сводка"},
		{Command: "generate", Description: "⚙️ Догенерировать занятия"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
