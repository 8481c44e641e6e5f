package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutor_tracker_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// sessionDuration длительность генерируемого занятия в минутах
const sessionDuration = 60

// instantKey идентичность занятия для дедупликации при генерации
type instantKey struct {
	studentID uuid.UUID
	unix      int64
}

// Materialize разворачивает шаблоны всех учеников в конкретные занятия
// на дни [сегодня, сегодня+daysAhead]. Существующие занятия с тем же
// учеником и тем же моментом времени не дублируются, их статус и цена
// не трогаются. Повторный вызов с тем же горизонтом ничего не меняет.
// Возвращает количество созданных занятий.
func (t *Tracker) Materialize(ctx context.Context, daysAhead int) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	created := t.materializeLocked(daysAhead)
	if created > 0 {
		t.sortSessionsLocked()
		t.flushLocked(ctx)
	}

	t.logger.Info("Sessions materialized",
		zap.Int("days_ahead", daysAhead),
		zap.Int("created", created),
	)
	return created, nil
}

func (t *Tracker) materializeLocked(daysAhead int) int {
	if len(t.students) == 0 {
		return 0
	}

	existing := make(map[instantKey]struct{}, len(t.sessions))
	for _, session := range t.sessions {
		existing[instantKey{session.StudentID, session.DateTime.Unix()}] = struct{}{}
	}

	today := truncateToDay(t.clock.Now())
	created := 0

	for _, student := range t.students {
		for _, slot := range student.FixedSchedule {
			for i := 0; i <= daysAhead; i++ {
				date := today.AddDate(0, 0, i)
				if int(date.Weekday()) != slot.Weekday {
					continue
				}

				instant := slot.InstantOn(date)
				key := instantKey{student.ID, instant.Unix()}
				if _, ok := existing[key]; ok {
					continue
				}

				t.sessions = append(t.sessions, &model.Session{
					ID:        uuid.New(),
					StudentID: student.ID,
					DateTime:  instant,
					Duration:  sessionDuration,
					Price:     student.SessionPrice,
					Status:    model.SessionStatusPending,
				})
				existing[key] = struct{}{}
				created++
			}
		}
	}

	return created
}

// truncateToDay обнуляет время до местной полуночи
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
