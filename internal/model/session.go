package model

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusPending     SessionStatus = "pending"     // Ожидает проведения
	SessionStatusCompleted   SessionStatus = "completed"   // Проведено
	SessionStatusCancelled   SessionStatus = "cancelled"   // Отменено
	SessionStatusPostponed   SessionStatus = "postponed"   // Отложено, есть занятие-замена
	SessionStatusRescheduled SessionStatus = "rescheduled" // Занятие-замена для отложенного
)

// Session представляет одно конкретное занятие, сгенерированное из шаблона
// или созданное как замена отложенного
type Session struct {
	ID                uuid.UUID     `json:"id"`
	StudentID         uuid.UUID     `json:"student_id"`
	DateTime          time.Time     `json:"date_time"`
	Duration          int           `json:"duration"` // в минутах
	Price             int           `json:"price"`    // снимок цены на момент генерации
	Status            SessionStatus `json:"status"`
	OriginalSessionID *uuid.UUID    `json:"original_session_id"` // ссылка на отложенное занятие
	Note              string        `json:"note"`
}

// IsActionable проверяет, можно ли ещё менять статус занятия
func (s *Session) IsActionable() bool {
	switch s.Status {
	case SessionStatusPending, SessionStatusPostponed, SessionStatusRescheduled:
		return true
	}
	return false
}

// IsBillable проверяет, учитывается ли занятие в доходе.
// Занятие-замена считается оплачиваемым, как и проведённое.
func (s *Session) IsBillable() bool {
	return s.Status == SessionStatusCompleted || s.Status == SessionStatusRescheduled
}

// OnDate проверяет, попадает ли занятие на указанную календарную дату
func (s *Session) OnDate(date time.Time) bool {
	y1, m1, d1 := s.DateTime.Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
