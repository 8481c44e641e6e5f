package handlers

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/tutor_tracker_bot/internal/controller/formatting"
	"github.com/Freeeeeet/tutor_tracker_bot/internal/controller/state"
	"github.com/Freeeeeet/tutor_tracker_bot/internal/model"
	"github.com/Freeeeeet/tutor_tracker_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Ключи временных данных диалогов
const (
	dataPostponeSessionID = "postpone_session_id"
	dataPaymentStudentID  = "payment_student_id"
	dataStudentName       = "student_name"
	dataStudentPrice      = "student_price"
	dataRetimeStudentID   = "retime_student_id"
	dataRetimeWeekday     = "retime_weekday"
)

// HandleAddStudent начинает диалог добавления ученика
func (h *Handlers) HandleAddStudent(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	h.stateManager.SetState(chatID, state.StateAddStudentName)
	h.sendText(ctx, b, chatID, "Как зовут ученика?")
}

// HandlePay начинает диалог записи оплаты
func (h *Handlers) HandlePay(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	text, ok := h.studentPickList("Чью оплату записать?")
	if !ok {
		h.sendText(ctx, b, chatID, "Учеников пока нет. Добавьте первого: /addstudent")
		return
	}

	h.stateManager.SetState(chatID, state.StatePaymentStudent)
	h.sendText(ctx, b, chatID, text)
}

// HandleRetime начинает диалог изменения времени слота расписания
func (h *Handlers) HandleRetime(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	text, ok := h.studentPickList("Чьё расписание поменять?")
	if !ok {
		h.sendText(ctx, b, chatID, "Учеников пока нет. Добавьте первого: /addstudent")
		return
	}

	h.stateManager.SetState(chatID, state.StateRetimeStudent)
	h.sendText(ctx, b, chatID, text)
}

// studentPickList собирает нумерованный список учеников для выбора
func (h *Handlers) studentPickList(title string) (string, bool) {
	students := h.tracker.Students()
	if len(students) == 0 {
		return "", false
	}

	text := title + " Ответьте номером:\n"
	for i, student := range students {
		text += fmt.Sprintf("%d. %s\n", i+1, student.Name)
	}
	return text, true
}

// pickStudent разбирает ответ-номер из списка учеников
func (h *Handlers) pickStudent(answer string) (*model.Student, error) {
	students := h.tracker.Students()
	index, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || index < 1 || index > len(students) {
		return nil, fmt.Errorf("invalid student number %q", answer)
	}
	return students[index-1], nil
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от
// состояния диалога
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются своими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	chatID := update.Message.Chat.ID
	text := update.Message.Text

	switch h.stateManager.GetState(chatID) {
	case state.StatePostponeDateTime:
		h.handlePostponeDateTime(ctx, b, chatID, text)
	case state.StatePaymentStudent:
		h.handlePaymentStudent(ctx, b, chatID, text)
	case state.StatePaymentAmount:
		h.handlePaymentAmount(ctx, b, chatID, text)
	case state.StateAddStudentName:
		h.handleAddStudentName(ctx, b, chatID, text)
	case state.StateAddStudentPrice:
		h.handleAddStudentPrice(ctx, b, chatID, text)
	case state.StateAddStudentSchedule:
		h.handleAddStudentSchedule(ctx, b, chatID, text)
	case state.StateRetimeStudent:
		h.handleRetimeStudent(ctx, b, chatID, text)
	case state.StateRetimeWeekday:
		h.handleRetimeWeekday(ctx, b, chatID, text)
	case state.StateRetimeTime:
		h.handleRetimeTime(ctx, b, chatID, text)
	}
}

// handlePostponeDateTime завершает перенос занятия: ожидается "DD.MM HH:MM"
func (h *Handlers) handlePostponeDateTime(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	raw, ok := h.stateManager.GetData(chatID, dataPostponeSessionID)
	if !ok {
		h.stateManager.ClearState(chatID)
		return
	}

	sessionID, err := uuid.Parse(raw.(string))
	if err != nil {
		h.stateManager.ClearState(chatID)
		return
	}

	target, err := formatting.ParseDateTime(text, time.Now())
	if err != nil {
		h.sendText(ctx, b, chatID, "❌ Не понял. Формат: 05.03 18:00 (или /cancel)")
		return
	}

	rescheduled, err := h.tracker.SetStatus(ctx, sessionID, model.SessionStatusPostponed, &target)
	if err != nil {
		h.stateManager.ClearState(chatID)
		h.replyServiceError(ctx, b, chatID, err)
		return
	}

	h.stateManager.ClearState(chatID)
	h.sendText(ctx, b, chatID, fmt.Sprintf(
		"🔄 Занятие перенесено на %s.", formatting.FormatDateTime(rescheduled.DateTime)))
}

func (h *Handlers) handlePaymentStudent(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	student, err := h.pickStudent(text)
	if err != nil {
		h.sendText(ctx, b, chatID, "❌ Ответьте номером из списка (или /cancel).")
		return
	}

	h.stateManager.SetData(chatID, dataPaymentStudentID, student.ID.String())
	h.stateManager.SetState(chatID, state.StatePaymentAmount)
	h.sendText(ctx, b, chatID, fmt.Sprintf("Сколько оплатил(а) %s? Сумма в рублях:", student.Name))
}

func (h *Handlers) handlePaymentAmount(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	raw, ok := h.stateManager.GetData(chatID, dataPaymentStudentID)
	if !ok {
		h.stateManager.ClearState(chatID)
		return
	}
	studentID, err := uuid.Parse(raw.(string))
	if err != nil {
		h.stateManager.ClearState(chatID)
		return
	}

	amount, err := parseMoney(text)
	if err != nil {
		h.sendText(ctx, b, chatID, "❌ Не понял сумму. Например: 1500 или 1500.50")
		return
	}

	if err := h.tracker.RecordPayment(ctx, studentID, amount); err != nil {
		h.stateManager.ClearState(chatID)
		h.replyServiceError(ctx, b, chatID, err)
		return
	}

	h.stateManager.ClearState(chatID)
	student := h.tracker.StudentByID(studentID)
	h.sendText(ctx, b, chatID, fmt.Sprintf(
		"💰 Оплата %s записана. Всего оплачено: %s.",
		formatting.FormatPriceShort(amount),
		formatting.FormatPriceShort(student.PaidAmount),
	))
}

func (h *Handlers) handleAddStudentName(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	name := strings.TrimSpace(text)
	if name == "" {
		h.sendText(ctx, b, chatID, "❌ Имя не может быть пустым.")
		return
	}

	h.stateManager.SetData(chatID, dataStudentName, name)
	h.stateManager.SetState(chatID, state.StateAddStudentPrice)
	h.sendText(ctx, b, chatID, "Месячная цена в рублях?")
}

func (h *Handlers) handleAddStudentPrice(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	price, err := parseMoney(text)
	if err != nil {
		h.sendText(ctx, b, chatID, "❌ Не понял сумму. Например: 6000")
		return
	}

	h.stateManager.SetData(chatID, dataStudentPrice, price)
	h.stateManager.SetState(chatID, state.StateAddStudentSchedule)
	h.sendText(ctx, b, chatID,
		"Расписание, по слоту в строке. Например:\nПн 16:00\nЧт 10:30")
}

func (h *Handlers) handleAddStudentSchedule(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	slots, err := parseScheduleLines(text)
	if err != nil {
		h.sendText(ctx, b, chatID, "❌ Не понял расписание. По слоту в строке: Пн 16:00")
		return
	}

	nameRaw, _ := h.stateManager.GetData(chatID, dataStudentName)
	priceRaw, _ := h.stateManager.GetData(chatID, dataStudentPrice)
	name, _ := nameRaw.(string)
	price, _ := priceRaw.(int)
	if name == "" {
		h.stateManager.ClearState(chatID)
		return
	}

	student, err := h.tracker.AddStudent(ctx, service.StudentInput{
		Name:          name,
		MonthlyPrice:  price,
		FixedSchedule: slots,
	})
	if err != nil {
		h.stateManager.ClearState(chatID)
		h.replyServiceError(ctx, b, chatID, err)
		return
	}

	// Сразу заполняем расписание на месяц вперёд
	if _, err := h.tracker.Materialize(ctx, 30); err != nil {
		h.logger.Error("Failed to materialize after add student", zap.Error(err))
	}

	h.stateManager.ClearState(chatID)
	h.sendText(ctx, b, chatID, fmt.Sprintf(
		"✅ %s добавлен(а): %s/мес, %s за занятие. Занятия на месяц сгенерированы.",
		student.Name,
		formatting.FormatPriceShort(student.MonthlyPrice),
		formatting.FormatPriceShort(student.SessionPrice),
	))
}

func (h *Handlers) handleRetimeStudent(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	student, err := h.pickStudent(text)
	if err != nil {
		h.sendText(ctx, b, chatID, "❌ Ответьте номером из списка (или /cancel).")
		return
	}
	if len(student.FixedSchedule) == 0 {
		h.stateManager.ClearState(chatID)
		h.sendText(ctx, b, chatID, "У этого ученика нет постоянного расписания.")
		return
	}

	text = "Какой день поменять?\n"
	for _, slot := range student.FixedSchedule {
		text += fmt.Sprintf("%s %s\n", formatting.WeekdayShortName(slot.Weekday), slot.TimeOfDay())
	}

	h.stateManager.SetData(chatID, dataRetimeStudentID, student.ID.String())
	h.stateManager.SetState(chatID, state.StateRetimeWeekday)
	h.sendText(ctx, b, chatID, text)
}

func (h *Handlers) handleRetimeWeekday(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	weekday, err := formatting.ParseWeekday(text)
	if err != nil {
		h.sendText(ctx, b, chatID, "❌ Не понял день недели. Например: Пн")
		return
	}

	h.stateManager.SetData(chatID, dataRetimeWeekday, weekday)
	h.stateManager.SetState(chatID, state.StateRetimeTime)
	h.sendText(ctx, b, chatID, "Новое время? Формат: 18:00")
}

func (h *Handlers) handleRetimeTime(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	hour, minute, err := formatting.ParseTimeOfDay(text)
	if err != nil {
		h.sendText(ctx, b, chatID, "❌ Не понял время. Формат: 18:00")
		return
	}

	idRaw, _ := h.stateManager.GetData(chatID, dataRetimeStudentID)
	weekdayRaw, _ := h.stateManager.GetData(chatID, dataRetimeWeekday)
	idStr, _ := idRaw.(string)
	weekday, ok := weekdayRaw.(int)
	studentID, parseErr := uuid.Parse(idStr)
	if !ok || parseErr != nil {
		h.stateManager.ClearState(chatID)
		return
	}

	moved, created, err := h.tracker.Retime(ctx, studentID, weekday, hour, minute)
	if err != nil {
		h.stateManager.ClearState(chatID)
		h.replyServiceError(ctx, b, chatID, err)
		return
	}

	h.stateManager.ClearState(chatID)
	h.sendText(ctx, b, chatID, fmt.Sprintf(
		"✅ %s теперь в %02d:%02d. Перенесено занятий: %d, создано: %d.",
		formatting.WeekdayName(weekday), hour, minute, moved, created))
}

// replyServiceError превращает ошибку сервиса в понятный ответ оператору
func (h *Handlers) replyServiceError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	var text string
	switch {
	case err == service.ErrStudentNotFound:
		text = "❌ Ученик не найден."
	case err == service.ErrSessionNotFound:
		text = "❌ Занятие не найдено."
	case err == service.ErrSlotNotFound:
		text = "❌ В расписании нет слота на этот день недели."
	case err == service.ErrSessionFinalized:
		text = "❌ Занятие уже проведено или отменено."
	case err == service.ErrPostponeDateRequired:
		text = "❌ Для переноса нужна новая дата."
	default:
		h.logger.Error("Unexpected service error", zap.Error(err))
		text = "❌ Что-то пошло не так. Попробуйте ещё раз."
	}
	h.sendText(ctx, b, chatID, text)
}

// parseMoney разбирает сумму в рублях в копейки
func parseMoney(s string) (int, error) {
	value, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount: %w", err)
	}
	return int(math.Round(value * 100)), nil
}

// parseScheduleLines разбирает строки вида "Пн 16:00" в слоты расписания
func parseScheduleLines(text string) ([]model.RecurringSlot, error) {
	var slots []model.RecurringSlot
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("expected weekday and time, got %q", line)
		}
		weekday, err := formatting.ParseWeekday(fields[0])
		if err != nil {
			return nil, err
		}
		hour, minute, err := formatting.ParseTimeOfDay(fields[1])
		if err != nil {
			return nil, err
		}
		slots = append(slots, model.RecurringSlot{Weekday: weekday, StartHour: hour, StartMinute: minute})
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("empty schedule")
	}
	return slots, nil
}
