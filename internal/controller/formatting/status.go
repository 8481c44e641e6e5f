package formatting

import "github.com/Freeeeeet/tutor_tracker_bot/internal/model"

// StatusEmoji возвращает эмодзи для статуса занятия
func StatusEmoji(status model.SessionStatus) string {
	switch status {
	case model.SessionStatusPending:
		return "⏳"
	case model.SessionStatusCompleted:
		return "✅"
	case model.SessionStatusCancelled:
		return "❌"
	case model.SessionStatusPostponed:
		return "⏸"
	case model.SessionStatusRescheduled:
		return "🔄"
	}
	return "❔"
}

// StatusLabel возвращает название статуса занятия
func StatusLabel(status model.SessionStatus) string {
	switch status {
	case model.SessionStatusPending:
		return "Ожидает"
	case model.SessionStatusCompleted:
		return "Проведено"
	case model.SessionStatusCancelled:
		return "Отменено"
	case model.SessionStatusPostponed:
		return "Отложено"
	case model.SessionStatusRescheduled:
		return "Замена"
	}
	return string(status)
}

// PaymentStatusLabel возвращает название статуса расчётов
func PaymentStatusLabel(status model.PaymentStatus) string {
	switch status {
	case model.PaymentStatusPaid:
		return "✅ Оплачено"
	case model.PaymentStatusPartial:
		return "🟡 Частично"
	case model.PaymentStatusUnpaid:
		return "🔴 Не оплачено"
	}
	return string(status)
}
