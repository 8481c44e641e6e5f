package app

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/tutor_tracker_bot/internal/model"
	"github.com/Freeeeeet/tutor_tracker_bot/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// reminderWindow за сколько до начала занятия отправляется напоминание
const reminderWindow = 10 * time.Minute

// materializeHorizonDays горизонт ежедневной генерации занятий
const materializeHorizonDays = 14

// Notifier отправляет напоминание оператору
type Notifier interface {
	NotifySession(ctx context.Context, session *model.Session, student *model.Student, startsIn time.Duration)
}

// Scheduler управляет фоновыми задачами: ежедневной генерацией занятий
// и напоминаниями о скором начале занятия
type Scheduler struct {
	tracker  *service.Tracker
	notifier Notifier
	logger   *zap.Logger
	stopChan chan struct{}

	mu       sync.Mutex
	notified map[uuid.UUID]struct{} // занятия, о которых уже напомнили
}

// NewScheduler создаёт новый планировщик
func NewScheduler(tracker *service.Tracker, notifier Notifier, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		tracker:  tracker,
		notifier: notifier,
		logger:   logger,
		stopChan: make(chan struct{}),
		notified: make(map[uuid.UUID]struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runMaterializeTask(ctx)
	go s.runReminderTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runMaterializeTask раз в сутки догенерирует занятия по шаблонам
func (s *Scheduler) runMaterializeTask(ctx context.Context) {
	// Первый запуск сразу при старте
	s.materialize(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.materialize(ctx)
		case <-s.stopChan:
			s.logger.Info("Materialize task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Materialize task cancelled")
			return
		}
	}
}

func (s *Scheduler) materialize(ctx context.Context) {
	created, err := s.tracker.Materialize(ctx, materializeHorizonDays)
	if err != nil {
		s.logger.Error("Failed to materialize sessions", zap.Error(err))
		return
	}
	if created > 0 {
		s.logger.Info("Automatic materialization completed", zap.Int("created", created))
	}
}

// runReminderTask раз в минуту ищет занятия, начинающиеся в ближайшие
// 10 минут, и напоминает о каждом один раз
func (s *Scheduler) runReminderTask(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	s.checkReminders(ctx)

	for {
		select {
		case <-ticker.C:
			s.checkReminders(ctx)
		case <-s.stopChan:
			s.logger.Info("Reminder task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Reminder task cancelled")
			return
		}
	}
}

func (s *Scheduler) checkReminders(ctx context.Context) {
	if s.notifier == nil {
		return
	}

	for _, session := range s.tracker.UpcomingPending(reminderWindow) {
		s.mu.Lock()
		_, seen := s.notified[session.ID]
		if !seen {
			s.notified[session.ID] = struct{}{}
		}
		s.mu.Unlock()
		if seen {
			continue
		}

		student := s.tracker.StudentByID(session.StudentID)
		if student == nil {
			continue
		}

		startsIn := time.Until(session.DateTime)
		s.notifier.NotifySession(ctx, session, student, startsIn)

		s.logger.Info("Session reminder sent",
			zap.String("session_id", session.ID.String()),
			zap.String("student", student.Name),
			zap.Duration("starts_in", startsIn),
		)
	}
}
