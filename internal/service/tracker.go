package service

import (
	"context"
	"sort"
	"sync"

	"github.com/Freeeeeet/tutor_tracker_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tracker владеет коллекциями учеников и занятий и всеми операциями над ними.
// Все мутации проходят через него; хранилище получает полные коллекции
// после каждой мутации.
type Tracker struct {
	mu       sync.RWMutex
	students []*model.Student
	sessions []*model.Session

	store  Store
	clock  Clock
	logger *zap.Logger
}

// NewTracker создаёт трекер поверх хранилища
func NewTracker(store Store, clock Clock, logger *zap.Logger) *Tracker {
	return &Tracker{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Load загружает обе коллекции из хранилища
func (t *Tracker) Load(ctx context.Context) error {
	students, err := t.store.LoadStudents(ctx)
	if err != nil {
		return err
	}
	sessions, err := t.store.LoadSessions(ctx)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.students = students
	t.sessions = sessions
	t.sortSessionsLocked()

	t.logger.Info("Collections loaded",
		zap.Int("students", len(students)),
		zap.Int("sessions", len(sessions)),
	)
	return nil
}

// flush сохраняет обе коллекции. Ученики пишутся первыми: занятия
// ссылаются на них по внешнему ключу. Ошибка сохранения логируется,
// состояние в памяти остаётся источником истины.
func (t *Tracker) flushLocked(ctx context.Context) {
	if err := t.store.SaveStudents(ctx, t.students); err != nil {
		t.logger.Error("Failed to save students", zap.Error(err))
		return
	}
	if err := t.store.SaveSessions(ctx, t.sessions); err != nil {
		t.logger.Error("Failed to save sessions", zap.Error(err))
	}
}

// sortSessionsLocked держит коллекцию занятий отсортированной по времени
func (t *Tracker) sortSessionsLocked() {
	sort.SliceStable(t.sessions, func(i, j int) bool {
		return t.sessions[i].DateTime.Before(t.sessions[j].DateTime)
	})
}

// StudentInput данные для создания ученика
type StudentInput struct {
	Name          string
	Phone         string
	Level         string
	ParentName    string
	ParentPhone   string
	MonthlyPrice  int
	FixedSchedule []model.RecurringSlot
}

// AddStudent создаёт ученика и пересчитывает тарифные поля
func (t *Tracker) AddStudent(ctx context.Context, input StudentInput) (*model.Student, error) {
	student := &model.Student{
		ID:            uuid.New(),
		Name:          input.Name,
		Phone:         input.Phone,
		Level:         input.Level,
		ParentName:    input.ParentName,
		ParentPhone:   input.ParentPhone,
		MonthlyPrice:  input.MonthlyPrice,
		FixedSchedule: input.FixedSchedule,
		CreatedAt:     t.clock.Now(),
	}
	student.RecalculateBilling()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.students = append(t.students, student)
	t.flushLocked(ctx)

	t.logger.Info("Student added",
		zap.String("student_id", student.ID.String()),
		zap.String("name", student.Name),
		zap.Int("monthly_price", student.MonthlyPrice),
		zap.Int("session_price", student.SessionPrice),
		zap.Int("slots", len(student.FixedSchedule)),
	)
	return student, nil
}

// UpdateStudent заменяет данные ученика и пересчитывает тариф
func (t *Tracker) UpdateStudent(ctx context.Context, student *model.Student) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, existing := range t.students {
		if existing.ID == student.ID {
			student.RecalculateBilling()
			t.students[i] = student
			t.flushLocked(ctx)

			t.logger.Info("Student updated",
				zap.String("student_id", student.ID.String()),
				zap.String("name", student.Name),
			)
			return nil
		}
	}
	return ErrStudentNotFound
}

// DeleteStudent удаляет ученика и каскадно все его занятия
func (t *Tracker) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	index := -1
	for i, student := range t.students {
		if student.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return ErrStudentNotFound
	}

	t.students = append(t.students[:index], t.students[index+1:]...)

	kept := t.sessions[:0]
	removed := 0
	for _, session := range t.sessions {
		if session.StudentID == id {
			removed++
			continue
		}
		kept = append(kept, session)
	}
	t.sessions = kept
	t.flushLocked(ctx)

	t.logger.Info("Student deleted",
		zap.String("student_id", id.String()),
		zap.Int("sessions_removed", removed),
	)
	return nil
}

// RecordPayment добавляет оплату к накопленной сумме ученика.
// Знак суммы не проверяется, это ответственность вызывающего.
func (t *Tracker) RecordPayment(ctx context.Context, studentID uuid.UUID, amount int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	student := t.studentByIDLocked(studentID)
	if student == nil {
		return ErrStudentNotFound
	}

	student.PaidAmount += amount
	t.flushLocked(ctx)

	t.logger.Info("Payment recorded",
		zap.String("student_id", studentID.String()),
		zap.Int("amount", amount),
		zap.Int("paid_total", student.PaidAmount),
	)
	return nil
}

// Students возвращает всех учеников
func (t *Tracker) Students() []*model.Student {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*model.Student, len(t.students))
	copy(out, t.students)
	return out
}

// StudentByID возвращает ученика или nil
func (t *Tracker) StudentByID(id uuid.UUID) *model.Student {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.studentByIDLocked(id)
}

func (t *Tracker) studentByIDLocked(id uuid.UUID) *model.Student {
	for _, student := range t.students {
		if student.ID == id {
			return student
		}
	}
	return nil
}
