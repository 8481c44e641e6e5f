package model

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// RecurringSlot представляет один слот еженедельного расписания ученика
type RecurringSlot struct {
	Weekday     int `json:"weekday"`      // 0 = Sunday, 6 = Saturday
	StartHour   int `json:"start_hour"`   // 0-23
	StartMinute int `json:"start_minute"` // 0-59
}

// TimeOfDay возвращает время слота в формате "HH:MM"
func (rs RecurringSlot) TimeOfDay() string {
	return fmt.Sprintf("%02d:%02d", rs.StartHour, rs.StartMinute)
}

// InstantOn возвращает абсолютное время слота в указанный день
func (rs RecurringSlot) InstantOn(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		rs.StartHour, rs.StartMinute, 0, 0, date.Location())
}

// Student представляет ученика с шаблоном еженедельного расписания и тарифом
type Student struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Level       string    `json:"level"`
	ParentName  string    `json:"parent_name"`
	ParentPhone string    `json:"parent_phone"`

	MonthlyPrice    int `json:"monthly_price"`     // в копейках/центах
	SessionsPerWeek int `json:"sessions_per_week"` // кешированное количество слотов
	SessionPrice    int `json:"session_price"`     // кешированная цена одного занятия
	PaidAmount      int `json:"paid_amount"`       // сколько всего оплачено, не сбрасывается автоматически

	FixedSchedule []RecurringSlot `json:"fixed_schedule"`
	CreatedAt     time.Time       `json:"created_at"`
}

// SlotForWeekday возвращает слот расписания для дня недели или nil
func (s *Student) SlotForWeekday(weekday int) *RecurringSlot {
	for i := range s.FixedSchedule {
		if s.FixedSchedule[i].Weekday == weekday {
			return &s.FixedSchedule[i]
		}
	}
	return nil
}

// RecalculateBilling пересчитывает кешированные поля тарифа по шаблону.
// Цена занятия = месячная цена / (занятий в неделю * 4), с округлением.
func (s *Student) RecalculateBilling() {
	s.SessionsPerWeek = len(s.FixedSchedule)
	if s.SessionsPerWeek == 0 {
		s.SessionPrice = 0
		return
	}
	perMonth := float64(s.SessionsPerWeek * 4)
	s.SessionPrice = int(math.Round(float64(s.MonthlyPrice) / perMonth))
}
