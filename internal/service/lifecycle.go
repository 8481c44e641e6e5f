package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_tracker_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SetStatus переводит занятие в новый статус. Допустимые целевые статусы:
// completed, cancelled, postponed. Проведённые и отменённые занятия
// дальше не меняются. Для postponed обязательна новая дата: создаётся
// занятие-замена со статусом rescheduled, привязанное к отложенному
// через OriginalSessionID. Само отложенное занятие остаётся в истории
// и по-прежнему доступно для действий. Возвращает созданную замену,
// если она есть.
func (t *Tracker) SetStatus(ctx context.Context, sessionID uuid.UUID, status model.SessionStatus, newDateTime *time.Time) (*model.Session, error) {
	switch status {
	case model.SessionStatusCompleted, model.SessionStatusCancelled, model.SessionStatusPostponed:
	default:
		return nil, ErrInvalidStatus
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var session *model.Session
	for _, s := range t.sessions {
		if s.ID == sessionID {
			session = s
			break
		}
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if !session.IsActionable() {
		return nil, ErrSessionFinalized
	}
	if status == model.SessionStatusPostponed && newDateTime == nil {
		return nil, ErrPostponeDateRequired
	}

	session.Status = status

	var rescheduled *model.Session
	if status == model.SessionStatusPostponed {
		originalID := session.ID
		rescheduled = &model.Session{
			ID:                uuid.New(),
			StudentID:         session.StudentID,
			DateTime:          *newDateTime,
			Duration:          session.Duration,
			Price:             session.Price,
			Status:            model.SessionStatusRescheduled,
			OriginalSessionID: &originalID,
			Note:              fmt.Sprintf("Перенос занятия с %s", session.DateTime.Format("02.01.2006")),
		}
		t.sessions = append(t.sessions, rescheduled)
		t.sortSessionsLocked()
	}

	t.flushLocked(ctx)

	fields := []zap.Field{
		zap.String("session_id", sessionID.String()),
		zap.String("status", string(status)),
	}
	if rescheduled != nil {
		fields = append(fields,
			zap.String("rescheduled_id", rescheduled.ID.String()),
			zap.Time("new_date_time", rescheduled.DateTime),
		)
	}
	t.logger.Info("Session status changed", fields...)

	return rescheduled, nil
}
