package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_tracker_bot/internal/model"
	"github.com/Freeeeeet/tutor_tracker_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// StudentRepository хранит учеников и их еженедельные расписания
type StudentRepository struct {
	*base.Repository
	logger *zap.Logger
}

// NewStudentRepository создаёт новый репозиторий
func NewStudentRepository(pool *pgxpool.Pool, logger *zap.Logger) *StudentRepository {
	return &StudentRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// LoadAll загружает всех учеников вместе со слотами расписания
func (r *StudentRepository) LoadAll(ctx context.Context) ([]*model.Student, error) {
	query := `
		SELECT id, name, phone, level, parent_name, parent_phone,
		       monthly_price, sessions_per_week, session_price, paid_amount, created_at
		FROM students
		ORDER BY created_at
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}
	defer rows.Close()

	var students []*model.Student
	byID := make(map[string]*model.Student)
	for rows.Next() {
		student := &model.Student{}
		err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.Phone,
			&student.Level,
			&student.ParentName,
			&student.ParentPhone,
			&student.MonthlyPrice,
			&student.SessionsPerWeek,
			&student.SessionPrice,
			&student.PaidAmount,
			&student.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, student)
		byID[student.ID.String()] = student
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}

	slotQuery := `
		SELECT student_id, weekday, start_hour, start_minute
		FROM recurring_slots
		ORDER BY weekday, start_hour, start_minute
	`

	slotRows, err := r.Query(ctx, slotQuery)
	if err != nil {
		return nil, fmt.Errorf("load recurring slots: %w", err)
	}
	defer slotRows.Close()

	for slotRows.Next() {
		var studentID string
		slot := model.RecurringSlot{}
		if err := slotRows.Scan(&studentID, &slot.Weekday, &slot.StartHour, &slot.StartMinute); err != nil {
			return nil, fmt.Errorf("scan recurring slot: %w", err)
		}
		if student, ok := byID[studentID]; ok {
			student.FixedSchedule = append(student.FixedSchedule, slot)
		}
	}
	if err := slotRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recurring slots: %w", err)
	}

	return students, nil
}

// ReplaceAll сохраняет полную коллекцию учеников одной транзакцией
func (r *StudentRepository) ReplaceAll(ctx context.Context, students []*model.Student) error {
	tx, err := r.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM students`); err != nil {
		return fmt.Errorf("clear students: %w", err)
	}

	insertStudent := `
		INSERT INTO students (id, name, phone, level, parent_name, parent_phone,
		                      monthly_price, sessions_per_week, session_price, paid_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	insertSlot := `
		INSERT INTO recurring_slots (student_id, weekday, start_hour, start_minute)
		VALUES ($1, $2, $3, $4)
	`

	for _, student := range students {
		_, err := tx.Exec(ctx, insertStudent,
			student.ID,
			student.Name,
			student.Phone,
			student.Level,
			student.ParentName,
			student.ParentPhone,
			student.MonthlyPrice,
			student.SessionsPerWeek,
			student.SessionPrice,
			student.PaidAmount,
			student.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert student: %w", err)
		}

		for _, slot := range student.FixedSchedule {
			_, err := tx.Exec(ctx, insertSlot, student.ID, slot.Weekday, slot.StartHour, slot.StartMinute)
			if err != nil {
				return fmt.Errorf("insert recurring slot: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	r.logger.Debug("Students collection saved", zap.Int("count", len(students)))
	return nil
}
