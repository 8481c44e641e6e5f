package service

import (
	"time"

	"github.com/Freeeeeet/tutor_tracker_bot/internal/model"
	"github.com/google/uuid"
)

// overduePostponeAge через сколько отложенное занятие считается просроченным
const overduePostponeAge = 3 * 24 * time.Hour

// SessionByID возвращает занятие или nil
func (t *Tracker) SessionByID(id uuid.UUID) *model.Session {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, session := range t.sessions {
		if session.ID == id {
			return session
		}
	}
	return nil
}

// SessionsOnDate возвращает занятия на календарную дату по возрастанию времени
func (t *Tracker) SessionsOnDate(date time.Time) []*model.Session {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sessionsOnDateLocked(date)
}

func (t *Tracker) sessionsOnDateLocked(date time.Time) []*model.Session {
	var out []*model.Session
	for _, session := range t.sessions {
		if session.OnDate(date) {
			out = append(out, session)
		}
	}
	return out
}

// DailyIncome возвращает доход за дату: сумма цен проведённых занятий
// и занятий-замен, назначенных на эту дату
func (t *Tracker) DailyIncome(date time.Time) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	income := 0
	for _, session := range t.sessions {
		if session.OnDate(date) && session.IsBillable() {
			income += session.Price
		}
	}
	return income
}

// ExpectedMonthlyIncome возвращает сумму месячных цен всех учеников
func (t *Tracker) ExpectedMonthlyIncome() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	total := 0
	for _, student := range t.students {
		total += student.MonthlyPrice
	}
	return total
}

// Stats собирает общую сводку на текущий момент
func (t *Tracker) Stats() *model.Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	now := t.clock.Now()
	stats := &model.Stats{
		TodaySessions: t.sessionsOnDateLocked(now),
	}

	overdueBefore := now.Add(-overduePostponeAge)
	for _, session := range t.sessions {
		if session.IsBillable() {
			stats.TotalIncome += session.Price
		}
		switch session.Status {
		case model.SessionStatusCancelled:
			stats.CancelledCount++
		case model.SessionStatusPostponed:
			stats.PendingPostponed++
			if session.DateTime.Before(overdueBefore) {
				stats.OverduePostponed = append(stats.OverduePostponed, session)
			}
		}
	}
	return stats
}

// FinancialReport собирает финансовый отчёт по каждому ученику.
// Долг считается по проведённым занятиям и занятиям-заменам.
func (t *Tracker) FinancialReport() *model.FinancialReport {
	t.mu.RLock()
	defer t.mu.RUnlock()

	report := &model.FinancialReport{}
	for _, student := range t.students {
		completed := 0
		for _, session := range t.sessions {
			if session.StudentID == student.ID && session.IsBillable() {
				completed++
			}
		}

		debt := completed * student.SessionPrice
		report.StudentReports = append(report.StudentReports, &model.StudentReport{
			Student:                student,
			CompletedSessionsCount: completed,
			Debt:                   debt,
			Paid:                   student.PaidAmount,
			Status:                 model.ReportStatus(debt, student.PaidAmount),
			ExpectedMonthly:        student.MonthlyPrice,
		})

		report.TotalExpected += debt
		report.TotalCollected += student.PaidAmount
		report.MonthlyExpected += student.MonthlyPrice
	}
	return report
}

// UpcomingPending возвращает ожидающие занятия, начинающиеся в ближайшее
// окно времени. Используется напоминаниями.
func (t *Tracker) UpcomingPending(window time.Duration) []*model.Session {
	t.mu.RLock()
	defer t.mu.RUnlock()

	now := t.clock.Now()
	until := now.Add(window)

	var out []*model.Session
	for _, session := range t.sessions {
		if session.Status != model.SessionStatusPending {
			continue
		}
		if session.DateTime.Before(now) || session.DateTime.After(until) {
			continue
		}
		out = append(out, session)
	}
	return out
}
