package state

// UserState представляет текущее состояние оператора в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Перенос занятия
	StatePostponeDateTime UserState = "postpone_date_time"

	// Приём оплаты
	StatePaymentStudent UserState = "payment_student"
	StatePaymentAmount  UserState = "payment_amount"

	// Добавление ученика
	StateAddStudentName     UserState = "add_student_name"
	StateAddStudentPrice    UserState = "add_student_price"
	StateAddStudentSchedule UserState = "add_student_schedule"

	// Изменение времени слота расписания
	StateRetimeStudent UserState = "retime_student"
	StateRetimeWeekday UserState = "retime_weekday"
	StateRetimeTime    UserState = "retime_time"
)

// UserData хранит временные данные оператора во время диалога
type UserData struct {
	State UserState
	Data  map[string]interface{} // Временные данные для текущего диалога
}
