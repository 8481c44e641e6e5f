package service

import (
	"context"

	"github.com/Freeeeeet/tutor_tracker_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// retimeWindowDays окно согласования уже сгенерированных занятий
const retimeWindowDays = 30

// Retime меняет время слота еженедельного расписания и согласует
// уже сгенерированные занятия на ближайший 31 день: незавершённые
// занятия (pending/rescheduled) на совпадающую дату переносятся на
// новое время, отсутствующие создаются заново. Проведённые, отменённые
// и отложенные занятия не трогаются — история не переписывается.
// Возвращает количество перенесённых и созданных занятий.
func (t *Tracker) Retime(ctx context.Context, studentID uuid.UUID, weekday, hour, minute int) (moved, created int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	student := t.studentByIDLocked(studentID)
	if student == nil {
		return 0, 0, ErrStudentNotFound
	}

	slot := student.SlotForWeekday(weekday)
	if slot == nil {
		return 0, 0, ErrSlotNotFound
	}

	slot.StartHour = hour
	slot.StartMinute = minute

	today := truncateToDay(t.clock.Now())
	for i := 0; i <= retimeWindowDays; i++ {
		date := today.AddDate(0, 0, i)
		if int(date.Weekday()) != weekday {
			continue
		}

		target := slot.InstantOn(date)

		var match *model.Session
		for _, session := range t.sessions {
			if session.StudentID != studentID || !session.OnDate(date) {
				continue
			}
			if session.Status == model.SessionStatusPending || session.Status == model.SessionStatusRescheduled {
				match = session
				break
			}
		}

		if match != nil {
			match.DateTime = target
			moved++
			continue
		}

		t.sessions = append(t.sessions, &model.Session{
			ID:        uuid.New(),
			StudentID: studentID,
			DateTime:  target,
			Duration:  sessionDuration,
			Price:     student.SessionPrice,
			Status:    model.SessionStatusPending,
		})
		created++
	}

	t.sortSessionsLocked()
	t.flushLocked(ctx)

	t.logger.Info("Recurring slot retimed",
		zap.String("student_id", studentID.String()),
		zap.Int("weekday", weekday),
		zap.String("new_time", slot.TimeOfDay()),
		zap.Int("moved", moved),
		zap.Int("created", created),
	)
	return moved, created, nil
}
