package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_tracker_bot/internal/model"
	"github.com/Freeeeeet/tutor_tracker_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// SessionRepository хранит коллекцию занятий
type SessionRepository struct {
	*base.Repository
	logger *zap.Logger
}

// NewSessionRepository создаёт новый репозиторий
func NewSessionRepository(pool *pgxpool.Pool, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// LoadAll загружает все занятия, отсортированные по времени
func (r *SessionRepository) LoadAll(ctx context.Context) ([]*model.Session, error) {
	query := `
		SELECT id, student_id, date_time, duration, price, status, original_session_id, note
		FROM sessions
		ORDER BY date_time
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		session := &model.Session{}
		err := rows.Scan(
			&session.ID,
			&session.StudentID,
			&session.DateTime,
			&session.Duration,
			&session.Price,
			&session.Status,
			&session.OriginalSessionID,
			&session.Note,
		)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

// ReplaceAll сохраняет полную коллекцию занятий одной транзакцией
func (r *SessionRepository) ReplaceAll(ctx context.Context, sessions []*model.Session) error {
	tx, err := r.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("clear sessions: %w", err)
	}

	insert := `
		INSERT INTO sessions (id, student_id, date_time, duration, price, status, original_session_id, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, session := range sessions {
		_, err := tx.Exec(ctx, insert,
			session.ID,
			session.StudentID,
			session.DateTime,
			session.Duration,
			session.Price,
			session.Status,
			session.OriginalSessionID,
			session.Note,
		)
		if err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	r.logger.Debug("Sessions collection saved", zap.Int("count", len(sessions)))
	return nil
}
