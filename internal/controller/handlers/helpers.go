package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/tutor_tracker_bot/internal/controller/formatting"
	"github.com/Freeeeeet/tutor_tracker_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Callback data форматы
const (
	CallbackDone     = "sess_done:"     // sess_done:<uuid>
	CallbackCancel   = "sess_cancel:"   // sess_cancel:<uuid>
	CallbackPostpone = "sess_postpone:" // sess_postpone:<uuid>
)

// sendText отправляет текст в чат, ошибка только логируется
func (h *Handlers) sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// sessionLine формирует строку занятия для списков
func (h *Handlers) sessionLine(session *model.Session) string {
	name := "?"
	if student := h.tracker.StudentByID(session.StudentID); student != nil {
		name = student.Name
	}

	line := fmt.Sprintf("%s %s — %s, %s",
		formatting.StatusEmoji(session.Status),
		formatting.FormatTime(session.DateTime),
		name,
		formatting.FormatPriceShort(session.Price),
	)
	if session.Note != "" {
		line += "\n   " + session.Note
	}
	return line
}

// sessionKeyboard собирает кнопки действий для занятия
func sessionKeyboard(session *model.Session) *models.InlineKeyboardMarkup {
	id := session.ID.String()
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "✅ Проведено", CallbackData: CallbackDone + id},
				{Text: "❌ Отменить", CallbackData: CallbackCancel + id},
				{Text: "🔄 Перенести", CallbackData: CallbackPostpone + id},
			},
		},
	}
}

// commandArgument возвращает текст после команды: "/date 02.03" -> "02.03"
func commandArgument(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(text, fields[0]))
}
