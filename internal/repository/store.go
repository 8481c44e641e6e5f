package repository

import (
	"context"

	"github.com/Freeeeeet/tutor_tracker_bot/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Store объединяет оба репозитория в одно хранилище коллекций
type Store struct {
	students *StudentRepository
	sessions *SessionRepository
}

// NewStore создаёт хранилище поверх пула соединений
func NewStore(pool *pgxpool.Pool, logger *zap.Logger) *Store {
	return &Store{
		students: NewStudentRepository(pool, logger),
		sessions: NewSessionRepository(pool, logger),
	}
}

func (s *Store) LoadStudents(ctx context.Context) ([]*model.Student, error) {
	return s.students.LoadAll(ctx)
}

func (s *Store) LoadSessions(ctx context.Context) ([]*model.Session, error) {
	return s.sessions.LoadAll(ctx)
}

func (s *Store) SaveStudents(ctx context.Context, students []*model.Student) error {
	return s.students.ReplaceAll(ctx, students)
}

func (s *Store) SaveSessions(ctx context.Context, sessions []*model.Session) error {
	return s.sessions.ReplaceAll(ctx, sessions)
}
