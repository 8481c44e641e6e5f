package model

// PaymentStatus показывает состояние расчётов с учеником
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
)

// Stats общая сводка по всем занятиям
type Stats struct {
	TotalIncome       int        // доход за всё время (проведённые + замены)
	CancelledCount    int        // всего отменённых занятий
	PendingPostponed  int        // отложенных занятий всего
	TodaySessions     []*Session // занятия на сегодня
	OverduePostponed  []*Session // отложенные больше 3 дней назад
}

// StudentReport финансовый отчёт по одному ученику
type StudentReport struct {
	Student                *Student
	CompletedSessionsCount int // проведённые + замены
	Debt                   int // CompletedSessionsCount * SessionPrice
	Paid                   int
	Status                 PaymentStatus
	ExpectedMonthly        int
}

// FinancialReport сводный финансовый отчёт
type FinancialReport struct {
	StudentReports  []*StudentReport
	TotalExpected   int // сумма долгов всех учеников
	TotalCollected  int // сумма всех оплат
	MonthlyExpected int // сумма месячных цен
}

// ReportStatus определяет статус расчётов по долгу и оплате
func ReportStatus(debt, paid int) PaymentStatus {
	switch {
	case paid >= debt:
		return PaymentStatusPaid
	case paid > 0:
		return PaymentStatusPartial
	default:
		return PaymentStatusUnpaid
	}
}
