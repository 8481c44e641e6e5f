package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/tutor_tracker_bot/internal/controller/formatting"
	"github.com/Freeeeeet/tutor_tracker_bot/internal/controller/state"
	"github.com/Freeeeeet/tutor_tracker_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleCallbackQuery обрабатывает нажатия кнопок у занятий
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	message := callback.Message.Message
	if message == nil {
		h.answerCallback(ctx, b, callback.ID, "Сообщение устарело")
		return
	}
	chatID := message.Chat.ID
	data := callback.Data

	var action string
	var rawID string
	switch {
	case strings.HasPrefix(data, CallbackDone):
		action, rawID = "done", strings.TrimPrefix(data, CallbackDone)
	case strings.HasPrefix(data, CallbackCancel):
		action, rawID = "cancel", strings.TrimPrefix(data, CallbackCancel)
	case strings.HasPrefix(data, CallbackPostpone):
		action, rawID = "postpone", strings.TrimPrefix(data, CallbackPostpone)
	default:
		h.answerCallback(ctx, b, callback.ID, "")
		return
	}

	sessionID, err := uuid.Parse(rawID)
	if err != nil {
		h.logger.Error("Bad callback data", zap.String("data", data), zap.Error(err))
		h.answerCallback(ctx, b, callback.ID, "Некорректные данные")
		return
	}

	switch action {
	case "done":
		h.completeSession(ctx, b, callback.ID, chatID, sessionID)
	case "cancel":
		h.cancelSession(ctx, b, callback.ID, chatID, sessionID)
	case "postpone":
		h.startPostpone(ctx, b, callback.ID, chatID, sessionID)
	}
}

func (h *Handlers) completeSession(ctx context.Context, b *bot.Bot, callbackID string, chatID int64, sessionID uuid.UUID) {
	if _, err := h.tracker.SetStatus(ctx, sessionID, model.SessionStatusCompleted, nil); err != nil {
		h.answerCallback(ctx, b, callbackID, "Не получилось")
		h.replyServiceError(ctx, b, chatID, err)
		return
	}

	session := h.tracker.SessionByID(sessionID)
	h.answerCallback(ctx, b, callbackID, "Занятие проведено")
	h.sendText(ctx, b, chatID, fmt.Sprintf(
		"✅ Занятие проведено, +%s.", formatting.FormatPriceShort(session.Price)))
}

func (h *Handlers) cancelSession(ctx context.Context, b *bot.Bot, callbackID string, chatID int64, sessionID uuid.UUID) {
	if _, err := h.tracker.SetStatus(ctx, sessionID, model.SessionStatusCancelled, nil); err != nil {
		h.answerCallback(ctx, b, callbackID, "Не получилось")
		h.replyServiceError(ctx, b, chatID, err)
		return
	}

	h.answerCallback(ctx, b, callbackID, "Занятие отменено")
	h.sendText(ctx, b, chatID, "❌ Занятие отменено.")
}

// startPostpone запускает диалог переноса: дата придёт текстом
func (h *Handlers) startPostpone(ctx context.Context, b *bot.Bot, callbackID string, chatID int64, sessionID uuid.UUID) {
	session := h.tracker.SessionByID(sessionID)
	if session == nil {
		h.answerCallback(ctx, b, callbackID, "Занятие не найдено")
		return
	}
	if !session.IsActionable() {
		h.answerCallback(ctx, b, callbackID, "Занятие уже завершено")
		return
	}

	h.stateManager.SetData(chatID, dataPostponeSessionID, sessionID.String())
	h.stateManager.SetState(chatID, state.StatePostponeDateTime)

	h.answerCallback(ctx, b, callbackID, "")
	h.sendText(ctx, b, chatID, fmt.Sprintf(
		"На когда перенести занятие %s? Формат: 05.03 18:00 (или /cancel)",
		formatting.FormatDateTime(session.DateTime)))
}

func (h *Handlers) answerCallback(ctx context.Context, b *bot.Bot, callbackID, text string) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
	if err != nil {
		h.logger.Error("Failed to answer callback", zap.Error(err))
	}
}
