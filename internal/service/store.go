package service

import (
	"context"

	"github.com/Freeeeeet/tutor_tracker_bot/internal/model"
)

// Store долговременное хранилище обеих коллекций целиком.
// Коллекции в памяти остаются источником истины: ошибка сохранения
// логируется, но не откатывает операцию.
type Store interface {
	LoadStudents(ctx context.Context) ([]*model.Student, error)
	LoadSessions(ctx context.Context) ([]*model.Session, error)
	SaveStudents(ctx context.Context, students []*model.Student) error
	SaveSessions(ctx context.Context, sessions []*model.Session) error
}
