package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/tutor_tracker_bot/internal/model"
	"go.uber.org/zap"
)

// memStore хранилище в памяти для тестов
type memStore struct {
	students []*model.Student
	sessions []*model.Session
	failSave bool
}

func (m *memStore) LoadStudents(ctx context.Context) ([]*model.Student, error) {
	return m.students, nil
}

func (m *memStore) LoadSessions(ctx context.Context) ([]*model.Session, error) {
	return m.sessions, nil
}

func (m *memStore) SaveStudents(ctx context.Context, students []*model.Student) error {
	if m.failSave {
		return errors.New("save failed")
	}
	m.students = append([]*model.Student(nil), students...)
	return nil
}

func (m *memStore) SaveSessions(ctx context.Context, sessions []*model.Session) error {
	if m.failSave {
		return errors.New("save failed")
	}
	m.sessions = append([]*model.Session(nil), sessions...)
	return nil
}

// fixedClock часы с управляемым временем
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

// sunday воскресенье 1 марта 2026
var sunday = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestTracker(now time.Time) (*Tracker, *fixedClock) {
	clock := &fixedClock{now: now}
	return NewTracker(&memStore{}, clock, zap.NewNop()), clock
}

func addMondayStudent(t *testing.T, tracker *Tracker, monthlyPrice int) *model.Student {
	t.Helper()
	student, err := tracker.AddStudent(context.Background(), StudentInput{
		Name:         "Иван",
		MonthlyPrice: monthlyPrice,
		FixedSchedule: []model.RecurringSlot{
			{Weekday: 1, StartHour: 16, StartMinute: 0},
		},
	})
	if err != nil {
		t.Fatalf("add student: %v", err)
	}
	return student
}

func TestAddStudentRecalculatesBilling(t *testing.T) {
	tracker, _ := newTestTracker(sunday)

	student, err := tracker.AddStudent(context.Background(), StudentInput{
		Name:         "Анна",
		MonthlyPrice: 1000,
		FixedSchedule: []model.RecurringSlot{
			{Weekday: 1, StartHour: 16, StartMinute: 0},
			{Weekday: 3, StartHour: 17, StartMinute: 30},
		},
	})
	if err != nil {
		t.Fatalf("add student: %v", err)
	}

	if student.SessionsPerWeek != 2 {
		t.Fatalf("expected 2 sessions per week, got %d", student.SessionsPerWeek)
	}
	// 1000 / (2*4) = 125
	if student.SessionPrice != 125 {
		t.Fatalf("expected session price 125, got %d", student.SessionPrice)
	}
	if !student.CreatedAt.Equal(sunday) {
		t.Fatalf("expected created_at to match clock")
	}
}

func TestBillingRounding(t *testing.T) {
	tests := []struct {
		name         string
		monthlyPrice int
		slots        int
		want         int
	}{
		{"exact", 1200, 2, 150},
		{"rounds up", 1000, 3, 83},   // 1000/12 = 83.33
		{"rounds half", 1400, 3, 117}, // 1400/12 = 116.67
		{"no slots", 1000, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			student := &model.Student{MonthlyPrice: tt.monthlyPrice}
			for i := 0; i < tt.slots; i++ {
				student.FixedSchedule = append(student.FixedSchedule, model.RecurringSlot{Weekday: i})
			}
			student.RecalculateBilling()
			if student.SessionPrice != tt.want {
				t.Fatalf("expected session price %d, got %d", tt.want, student.SessionPrice)
			}
		})
	}
}

func TestDeleteStudentCascadesSessions(t *testing.T) {
	tracker, _ := newTestTracker(sunday)
	ctx := context.Background()

	student := addMondayStudent(t, tracker, 1200)
	other := addMondayStudent(t, tracker, 800)

	if _, err := tracker.Materialize(ctx, 14); err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if len(tracker.SessionsOnDate(sunday.AddDate(0, 0, 1))) != 2 {
		t.Fatalf("expected sessions for both students")
	}

	if err := tracker.DeleteStudent(ctx, student.ID); err != nil {
		t.Fatalf("delete student: %v", err)
	}

	if tracker.StudentByID(student.ID) != nil {
		t.Fatalf("expected student to be gone")
	}
	for _, session := range tracker.SessionsOnDate(sunday.AddDate(0, 0, 1)) {
		if session.StudentID == student.ID {
			t.Fatalf("expected cascade delete of sessions")
		}
		if session.StudentID != other.ID {
			t.Fatalf("unexpected session owner")
		}
	}
}

func TestDeleteStudentNotFound(t *testing.T) {
	tracker, _ := newTestTracker(sunday)
	student := addMondayStudent(t, tracker, 1200)

	if err := tracker.DeleteStudent(context.Background(), student.ID); err != nil {
		t.Fatalf("delete student: %v", err)
	}
	if err := tracker.DeleteStudent(context.Background(), student.ID); !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestRecordPaymentAccumulates(t *testing.T) {
	tracker, _ := newTestTracker(sunday)
	ctx := context.Background()
	student := addMondayStudent(t, tracker, 1200)

	if err := tracker.RecordPayment(ctx, student.ID, 300); err != nil {
		t.Fatalf("record payment: %v", err)
	}
	if err := tracker.RecordPayment(ctx, student.ID, 200); err != nil {
		t.Fatalf("record payment: %v", err)
	}

	if got := tracker.StudentByID(student.ID).PaidAmount; got != 500 {
		t.Fatalf("expected paid amount 500, got %d", got)
	}
}

func TestRecordPaymentUnknownStudent(t *testing.T) {
	tracker, _ := newTestTracker(sunday)
	student := &model.Student{}
	if err := tracker.RecordPayment(context.Background(), student.ID, 100); !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestSaveFailureKeepsMemoryAuthoritative(t *testing.T) {
	store := &memStore{failSave: true}
	tracker := NewTracker(store, &fixedClock{now: sunday}, zap.NewNop())
	ctx := context.Background()

	student, err := tracker.AddStudent(ctx, StudentInput{
		Name:         "Пётр",
		MonthlyPrice: 600,
		FixedSchedule: []model.RecurringSlot{
			{Weekday: 1, StartHour: 16, StartMinute: 0},
		},
	})
	if err != nil {
		t.Fatalf("add student: %v", err)
	}

	if _, err := tracker.Materialize(ctx, 14); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	// Хранилище недоступно, но состояние в памяти живёт
	if tracker.StudentByID(student.ID) == nil {
		t.Fatalf("expected student in memory despite save failure")
	}
	if len(tracker.SessionsOnDate(sunday.AddDate(0, 0, 1))) == 0 {
		t.Fatalf("expected sessions in memory despite save failure")
	}
}

func TestLoadSortsSessions(t *testing.T) {
	student := &model.Student{ID: [16]byte{1}, Name: "X"}
	later := &model.Session{ID: [16]byte{2}, StudentID: student.ID, DateTime: sunday.AddDate(0, 0, 2), Status: model.SessionStatusPending}
	earlier := &model.Session{ID: [16]byte{3}, StudentID: student.ID, DateTime: sunday, Status: model.SessionStatusPending}

	store := &memStore{
		students: []*model.Student{student},
		sessions: []*model.Session{later, earlier},
	}
	tracker := NewTracker(store, &fixedClock{now: sunday}, zap.NewNop())
	if err := tracker.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	today := tracker.SessionsOnDate(sunday)
	if len(today) != 1 || today[0].ID != earlier.ID {
		t.Fatalf("expected the earlier session on today's date")
	}
}
