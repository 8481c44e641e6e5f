package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_tracker_bot/internal/controller/formatting"
	"github.com/Freeeeeet/tutor_tracker_bot/internal/model"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// ReminderNotifier шлёт напоминания о занятиях в чат оператора
type ReminderNotifier struct {
	bot         *bot.Bot
	adminChatID int64
	logger      *zap.Logger
}

// NewReminderNotifier создаёт нотификатор напоминаний
func NewReminderNotifier(botInstance *bot.Bot, adminChatID int64, logger *zap.Logger) *ReminderNotifier {
	return &ReminderNotifier{
		bot:         botInstance,
		adminChatID: adminChatID,
		logger:      logger,
	}
}

// NotifySession отправляет напоминание о скором начале занятия
func (n *ReminderNotifier) NotifySession(ctx context.Context, session *model.Session, student *model.Student, startsIn time.Duration) {
	if n.adminChatID == 0 {
		return
	}

	minutes := int(startsIn.Minutes())
	if minutes < 1 {
		minutes = 1
	}

	text := fmt.Sprintf(
		"🔔 Через %d %s занятие!\n\n%s, %s\n%s",
		minutes,
		formatting.PluralizeMinutes(minutes),
		student.Name,
		formatting.FormatTime(session.DateTime),
		formatting.FormatPriceShort(session.Price),
	)

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.adminChatID,
		Text:   text,
	})
	if err != nil {
		n.logger.Error("Failed to send reminder",
			zap.String("session_id", session.ID.String()),
			zap.Error(err))
	}
}
