package handlers

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_tracker_bot/internal/controller/formatting"
	"github.com/Freeeeeet/tutor_tracker_bot/internal/controller/imaging"
	"github.com/Freeeeeet/tutor_tracker_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	welcomeText := "👋 Привет!\n\n" +
		"Это трекер занятий репетитора: ученики с постоянным расписанием, " +
		"занятия, переносы и оплаты.\n\n" +
		"Основные команды:\n" +
		"/today - Занятия на сегодня\n" +
		"/date - Занятия на дату\n" +
		"/week - Расписание недели картинкой\n" +
		"/students - Список учеников\n" +
		"/stats - Общая сводка\n" +
		"/report - Финансовый отчёт\n" +
		"/help - Справка"

	h.sendText(ctx, b, update.Message.Chat.ID, welcomeText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Справка по командам:\n\n" +
		"Расписание:\n" +
		"/today - Занятия на сегодня\n" +
		"/date 05.03 - Занятия на дату\n" +
		"/week - Текущая неделя картинкой\n" +
		"/generate - Догенерировать занятия на месяц\n\n" +
		"Ученики:\n" +
		"/students - Все ученики\n" +
		"/addstudent - Добавить ученика\n" +
		"/retime - Изменить время в расписании\n\n" +
		"Деньги:\n" +
		"/pay - Записать оплату\n" +
		"/income - Доход за сегодня\n" +
		"/income 05.03 - Доход за дату\n" +
		"/report - Финансовый отчёт\n" +
		"/stats - Общая сводка\n\n" +
		"У каждого занятия в списке есть кнопки: провести, отменить, перенести.\n" +
		"/cancel - Прервать текущий диалог"

	h.sendText(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	if h.stateManager.GetState(chatID) == state.StateNone {
		h.sendText(ctx, b, chatID, "❌ Нет активных операций для отмены.")
		return
	}

	h.stateManager.ClearState(chatID)
	h.sendText(ctx, b, chatID, "✅ Операция отменена.")
}

// HandleToday обрабатывает команду /today
func (h *Handlers) HandleToday(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendDaySchedule(ctx, b, update.Message.Chat.ID, time.Now())
}

// HandleDate обрабатывает команду /date DD.MM
func (h *Handlers) HandleDate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	arg := commandArgument(update.Message.Text)
	if arg == "" {
		h.sendText(ctx, b, chatID, "Укажите дату: /date 05.03 или /date 05.03.2026")
		return
	}

	date, err := formatting.ParseDate(arg, time.Now())
	if err != nil {
		h.sendText(ctx, b, chatID, "❌ Не понял дату. Формат: 05.03 или 05.03.2026")
		return
	}
	h.sendDaySchedule(ctx, b, chatID, date)
}

// sendDaySchedule отправляет занятия на дату, по сообщению на занятие
// с кнопками действий для незавершённых
func (h *Handlers) sendDaySchedule(ctx context.Context, b *bot.Bot, chatID int64, date time.Time) {
	sessions := h.tracker.SessionsOnDate(date)
	header := fmt.Sprintf("📅 %s %s", formatting.WeekdayName(int(date.Weekday())), formatting.FormatDate(date))

	if len(sessions) == 0 {
		h.sendText(ctx, b, chatID, header+"\n\nЗанятий нет.")
		return
	}

	income := h.tracker.DailyIncome(date)
	header += fmt.Sprintf("\n%d %s, доход %s",
		len(sessions), formatting.PluralizeSessions(len(sessions)), formatting.FormatPriceShort(income))
	h.sendText(ctx, b, chatID, header)

	for _, session := range sessions {
		params := &bot.SendMessageParams{
			ChatID: chatID,
			Text:   h.sessionLine(session),
		}
		if session.IsActionable() {
			params.ReplyMarkup = sessionKeyboard(session)
		}
		if _, err := b.SendMessage(ctx, params); err != nil {
			h.logger.Error("Failed to send session", zap.Error(err))
		}
	}
}

// HandleWeek обрабатывает команду /week - расписание недели картинкой
func (h *Handlers) HandleWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	now := time.Now()
	// Неделя начинается с воскресенья, как и нумерация дней в расписании
	weekStart := now.AddDate(0, 0, -int(now.Weekday()))
	weekStart = time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, now.Location())

	var entries []imaging.Entry
	for i := 0; i < 7; i++ {
		for _, session := range h.tracker.SessionsOnDate(weekStart.AddDate(0, 0, i)) {
			label := "?"
			if student := h.tracker.StudentByID(session.StudentID); student != nil {
				label = student.Name
			}
			entries = append(entries, imaging.Entry{
				Start:    session.DateTime,
				Duration: time.Duration(session.Duration) * time.Minute,
				Label:    label,
				Status:   session.Status,
			})
		}
	}

	imageData, err := imaging.RenderWeek(weekStart, now, entries)
	if err != nil {
		h.logger.Error("Failed to render week image", zap.Error(err))
		h.sendText(ctx, b, chatID, "❌ Не удалось построить картинку расписания.")
		return
	}

	caption := fmt.Sprintf("🗓 Неделя %s — %s",
		formatting.FormatDate(weekStart), formatting.FormatDate(weekStart.AddDate(0, 0, 6)))
	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(imageData)},
		Caption: caption,
	})
	if err != nil {
		h.logger.Error("Failed to send week image", zap.Error(err))
	}
}

// HandleStudents обрабатывает команду /students
func (h *Handlers) HandleStudents(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	students := h.tracker.Students()
	if len(students) == 0 {
		h.sendText(ctx, b, chatID, "Учеников пока нет. Добавьте первого: /addstudent")
		return
	}

	text := fmt.Sprintf("👥 %d %s:\n", len(students), formatting.PluralizeStudents(len(students)))
	for _, student := range students {
		text += fmt.Sprintf("\n• %s — %s/мес (%s за занятие)\n",
			student.Name,
			formatting.FormatPriceShort(student.MonthlyPrice),
			formatting.FormatPriceShort(student.SessionPrice),
		)
		for _, slot := range student.FixedSchedule {
			text += fmt.Sprintf("  %s %s\n", formatting.WeekdayShortName(slot.Weekday), slot.TimeOfDay())
		}
	}
	h.sendText(ctx, b, chatID, text)
}

// HandleStats обрабатывает команду /stats
func (h *Handlers) HandleStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	stats := h.tracker.Stats()
	text := fmt.Sprintf(
		"📊 Сводка\n\n"+
			"💰 Доход за всё время: %s\n"+
			"📅 Сегодня занятий: %d\n"+
			"❌ Отменено всего: %d\n"+
			"⏸ Отложено без проведения: %d\n",
		formatting.FormatPriceShort(stats.TotalIncome),
		len(stats.TodaySessions),
		stats.CancelledCount,
		stats.PendingPostponed,
	)

	if len(stats.OverduePostponed) > 0 {
		text += fmt.Sprintf("\n⚠️ Просроченные переносы (старше 3 дней): %d\n", len(stats.OverduePostponed))
		for _, session := range stats.OverduePostponed {
			text += h.sessionLine(session) + "\n"
		}
	}

	h.sendText(ctx, b, update.Message.Chat.ID, text)
}

// HandleIncome обрабатывает команду /income [DD.MM]
func (h *Handlers) HandleIncome(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	date := time.Now()
	if arg := commandArgument(update.Message.Text); arg != "" {
		parsed, err := formatting.ParseDate(arg, date)
		if err != nil {
			h.sendText(ctx, b, chatID, "❌ Не понял дату. Формат: 05.03 или 05.03.2026")
			return
		}
		date = parsed
	}

	income := h.tracker.DailyIncome(date)
	expected := h.tracker.ExpectedMonthlyIncome()
	h.sendText(ctx, b, chatID, fmt.Sprintf(
		"💰 Доход за %s: %s\nОжидаемый доход в месяц: %s",
		formatting.FormatDate(date),
		formatting.FormatPriceShort(income),
		formatting.FormatPriceShort(expected),
	))
}

// HandleReport обрабатывает команду /report
func (h *Handlers) HandleReport(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	report := h.tracker.FinancialReport()
	if len(report.StudentReports) == 0 {
		h.sendText(ctx, b, update.Message.Chat.ID, "Учеников пока нет, отчёт пуст.")
		return
	}

	text := "🧾 Финансовый отчёт\n"
	for _, sr := range report.StudentReports {
		text += fmt.Sprintf(
			"\n%s — %s\n  Проведено: %d %s, долг %s, оплачено %s\n",
			sr.Student.Name,
			formatting.PaymentStatusLabel(sr.Status),
			sr.CompletedSessionsCount,
			formatting.PluralizeSessions(sr.CompletedSessionsCount),
			formatting.FormatPriceShort(sr.Debt),
			formatting.FormatPriceShort(sr.Paid),
		)
	}
	text += fmt.Sprintf(
		"\nИтого: собрано %s из %s\nОжидаемо в месяц: %s",
		formatting.FormatPriceShort(report.TotalCollected),
		formatting.FormatPriceShort(report.TotalExpected),
		formatting.FormatPriceShort(report.MonthlyExpected),
	)

	h.sendText(ctx, b, update.Message.Chat.ID, text)
}

// HandleGenerate обрабатывает команду /generate - генерация занятий на месяц
func (h *Handlers) HandleGenerate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	created, err := h.tracker.Materialize(ctx, 30)
	if err != nil {
		h.logger.Error("Failed to materialize sessions", zap.Error(err))
		h.sendText(ctx, b, chatID, "❌ Не удалось сгенерировать занятия.")
		return
	}

	if created == 0 {
		h.sendText(ctx, b, chatID, "✅ Расписание уже заполнено, новых занятий нет.")
		return
	}
	h.sendText(ctx, b, chatID, fmt.Sprintf(
		"✅ Создано %d %s на месяц вперёд.", created, formatting.PluralizeSessions(created)))
}
