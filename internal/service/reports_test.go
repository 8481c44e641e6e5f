package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/tutor_tracker_bot/internal/model"
)

func TestDailyIncomeConflation(t *testing.T) {
	tracker, _ := newTestTracker(sunday)
	ctx := context.Background()

	if _, err := tracker.AddStudent(ctx, StudentInput{
		Name:         "Олег",
		MonthlyPrice: 400,
		FixedSchedule: []model.RecurringSlot{
			{Weekday: 1, StartHour: 10, StartMinute: 0},
			{Weekday: 1, StartHour: 12, StartMinute: 0},
			{Weekday: 1, StartHour: 14, StartMinute: 0},
			{Weekday: 1, StartHour: 16, StartMinute: 0},
		},
	}); err != nil {
		t.Fatalf("add student: %v", err)
	}
	if _, err := tracker.Materialize(ctx, 1); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	// 400 / 16 = 25 за занятие; четыре занятия в понедельник
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	sessions := tracker.SessionsOnDate(monday)
	if len(sessions) != 4 {
		t.Fatalf("expected 4 sessions, got %d", len(sessions))
	}

	if _, err := tracker.SetStatus(ctx, sessions[0].ID, model.SessionStatusCompleted, nil); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := tracker.SetStatus(ctx, sessions[1].ID, model.SessionStatusCancelled, nil); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	// Переносим третье занятие на тот же день: замена учитывается в доходе дня
	target := time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC)
	if _, err := tracker.SetStatus(ctx, sessions[2].ID, model.SessionStatusPostponed, &target); err != nil {
		t.Fatalf("postpone: %v", err)
	}

	// completed(25) + rescheduled(25); pending, cancelled и postponed не считаются
	if got := tracker.DailyIncome(monday); got != 50 {
		t.Fatalf("expected daily income 50, got %d", got)
	}
}

func TestRescheduledIncomeCountsOnNewDate(t *testing.T) {
	tracker, _ := newTestTracker(sunday)
	ctx := context.Background()
	addMondayStudent(t, tracker, 1200)
	if _, err := tracker.Materialize(ctx, 7); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	wednesday := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	session := tracker.SessionsOnDate(monday)[0]
	if _, err := tracker.SetStatus(ctx, session.ID, model.SessionStatusPostponed, &wednesday); err != nil {
		t.Fatalf("postpone: %v", err)
	}

	if got := tracker.DailyIncome(monday); got != 0 {
		t.Fatalf("expected no income on original date, got %d", got)
	}
	if got := tracker.DailyIncome(wednesday); got != 150 {
		t.Fatalf("expected income 150 on new date, got %d", got)
	}
}

func TestExpectedMonthlyIncome(t *testing.T) {
	tracker, _ := newTestTracker(sunday)
	addMondayStudent(t, tracker, 1200)
	addMondayStudent(t, tracker, 800)

	if got := tracker.ExpectedMonthlyIncome(); got != 2000 {
		t.Fatalf("expected 2000, got %d", got)
	}
}

func TestFinancialReport(t *testing.T) {
	tracker, clock := newTestTracker(sunday)
	ctx := context.Background()

	// 400 в месяц, один слот → 100 за занятие
	student, err := tracker.AddStudent(ctx, StudentInput{
		Name:         "Лена",
		MonthlyPrice: 400,
		FixedSchedule: []model.RecurringSlot{
			{Weekday: 1, StartHour: 16, StartMinute: 0},
		},
	})
	if err != nil {
		t.Fatalf("add student: %v", err)
	}
	if student.SessionPrice != 100 {
		t.Fatalf("expected session price 100, got %d", student.SessionPrice)
	}

	if _, err := tracker.Materialize(ctx, 21); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	mondays := []time.Time{
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
	}
	first := tracker.SessionsOnDate(mondays[0])[0]
	second := tracker.SessionsOnDate(mondays[1])[0]
	third := tracker.SessionsOnDate(mondays[2])[0]

	if _, err := tracker.SetStatus(ctx, first.ID, model.SessionStatusCompleted, nil); err != nil {
		t.Fatalf("complete: %v", err)
	}
	target := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	if _, err := tracker.SetStatus(ctx, second.ID, model.SessionStatusPostponed, &target); err != nil {
		t.Fatalf("postpone: %v", err)
	}
	if _, err := tracker.SetStatus(ctx, third.ID, model.SessionStatusCancelled, nil); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := tracker.RecordPayment(ctx, student.ID, 150); err != nil {
		t.Fatalf("payment: %v", err)
	}

	clock.now = sunday
	report := tracker.FinancialReport()
	if len(report.StudentReports) != 1 {
		t.Fatalf("expected 1 student report, got %d", len(report.StudentReports))
	}
	sr := report.StudentReports[0]

	// completed + rescheduled = 2; postponed и cancelled не считаются
	if sr.CompletedSessionsCount != 2 {
		t.Fatalf("expected 2 billable sessions, got %d", sr.CompletedSessionsCount)
	}
	if sr.Debt != 200 {
		t.Fatalf("expected debt 200, got %d", sr.Debt)
	}
	if sr.Paid != 150 {
		t.Fatalf("expected paid 150, got %d", sr.Paid)
	}
	if sr.Status != model.PaymentStatusPartial {
		t.Fatalf("expected partial, got %s", sr.Status)
	}
	if sr.ExpectedMonthly != 400 {
		t.Fatalf("expected monthly 400, got %d", sr.ExpectedMonthly)
	}

	if report.TotalExpected != 200 || report.TotalCollected != 150 || report.MonthlyExpected != 400 {
		t.Fatalf("unexpected totals: %+v", report)
	}
}

func TestReportStatusBoundaries(t *testing.T) {
	tests := []struct {
		name string
		debt int
		paid int
		want model.PaymentStatus
	}{
		{"fully paid", 200, 200, model.PaymentStatusPaid},
		{"overpaid", 200, 300, model.PaymentStatusPaid},
		{"partial", 200, 1, model.PaymentStatusPartial},
		{"unpaid", 200, 0, model.PaymentStatusUnpaid},
		{"no debt no payment", 0, 0, model.PaymentStatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := model.ReportStatus(tt.debt, tt.paid); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestStats(t *testing.T) {
	tracker, clock := newTestTracker(sunday)
	ctx := context.Background()
	addMondayStudent(t, tracker, 1200)
	if _, err := tracker.Materialize(ctx, 21); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	mondayOne := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	mondayTwo := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	first := tracker.SessionsOnDate(mondayOne)[0]
	second := tracker.SessionsOnDate(mondayTwo)[0]

	if _, err := tracker.SetStatus(ctx, first.ID, model.SessionStatusCompleted, nil); err != nil {
		t.Fatalf("complete: %v", err)
	}
	target := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	if _, err := tracker.SetStatus(ctx, second.ID, model.SessionStatusPostponed, &target); err != nil {
		t.Fatalf("postpone: %v", err)
	}

	// Неделю спустя отложенное на 9 марта занятие давно просрочено
	clock.now = time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	stats := tracker.Stats()

	// completed 150 + rescheduled 150
	if stats.TotalIncome != 300 {
		t.Fatalf("expected total income 300, got %d", stats.TotalIncome)
	}
	if stats.CancelledCount != 0 {
		t.Fatalf("expected no cancellations, got %d", stats.CancelledCount)
	}
	if stats.PendingPostponed != 1 {
		t.Fatalf("expected 1 postponed, got %d", stats.PendingPostponed)
	}
	if len(stats.OverduePostponed) != 1 {
		t.Fatalf("expected 1 overdue postponed, got %d", len(stats.OverduePostponed))
	}
	// 16 марта — понедельник, на него есть ожидающее занятие
	if len(stats.TodaySessions) != 1 {
		t.Fatalf("expected 1 session today, got %d", len(stats.TodaySessions))
	}
}

func TestOverduePostponedBoundary(t *testing.T) {
	tracker, clock := newTestTracker(sunday)
	ctx := context.Background()
	addMondayStudent(t, tracker, 1200)
	if _, err := tracker.Materialize(ctx, 7); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	monday := time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)
	session := tracker.SessionsOnDate(monday)[0]
	target := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	if _, err := tracker.SetStatus(ctx, session.ID, model.SessionStatusPostponed, &target); err != nil {
		t.Fatalf("postpone: %v", err)
	}

	// Ровно три дня спустя — ещё не просрочено
	clock.now = monday.Add(3 * 24 * time.Hour)
	if got := len(tracker.Stats().OverduePostponed); got != 0 {
		t.Fatalf("expected no overdue at exactly 3 days, got %d", got)
	}

	clock.now = monday.Add(3*24*time.Hour + time.Minute)
	if got := len(tracker.Stats().OverduePostponed); got != 1 {
		t.Fatalf("expected overdue after 3 days, got %d", got)
	}
}

func TestUpcomingPendingWindow(t *testing.T) {
	monday := time.Date(2026, 3, 2, 15, 55, 0, 0, time.UTC)
	tracker, clock := newTestTracker(sunday)
	ctx := context.Background()
	addMondayStudent(t, tracker, 1200)
	if _, err := tracker.Materialize(ctx, 14); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	// За 5 минут до начала занятие попадает в 10-минутное окно
	clock.now = monday
	upcoming := tracker.UpcomingPending(10 * time.Minute)
	if len(upcoming) != 1 {
		t.Fatalf("expected 1 upcoming session, got %d", len(upcoming))
	}

	// За 30 минут — нет
	clock.now = monday.Add(-25 * time.Minute)
	if got := len(tracker.UpcomingPending(10 * time.Minute)); got != 0 {
		t.Fatalf("expected no upcoming sessions, got %d", got)
	}

	// Уже началось — нет
	clock.now = monday.Add(10 * time.Minute)
	if got := len(tracker.UpcomingPending(10 * time.Minute)); got != 0 {
		t.Fatalf("expected started session excluded, got %d", got)
	}
}
