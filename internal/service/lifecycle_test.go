package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/tutor_tracker_bot/internal/model"
	"github.com/google/uuid"
)

func materializeOne(t *testing.T, tracker *Tracker) *model.Session {
	t.Helper()
	addMondayStudent(t, tracker, 1200)
	if _, err := tracker.Materialize(context.Background(), 7); err != nil {
		t.Fatalf("materialize: %v", err)
	}
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	sessions := tracker.SessionsOnDate(monday)
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	return sessions[0]
}

func TestMarkCompleted(t *testing.T) {
	tracker, _ := newTestTracker(sunday)
	session := materializeOne(t, tracker)

	successor, err := tracker.SetStatus(context.Background(), session.ID, model.SessionStatusCompleted, nil)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if successor != nil {
		t.Fatalf("expected no successor for completion")
	}
	if session.Status != model.SessionStatusCompleted {
		t.Fatalf("expected completed, got %s", session.Status)
	}
}

func TestPostponeSpawnsRescheduled(t *testing.T) {
	tracker, _ := newTestTracker(sunday)
	session := materializeOne(t, tracker)

	target := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	successor, err := tracker.SetStatus(context.Background(), session.ID, model.SessionStatusPostponed, &target)
	if err != nil {
		t.Fatalf("postpone: %v", err)
	}
	if successor == nil {
		t.Fatalf("expected a rescheduled successor")
	}

	if session.Status != model.SessionStatusPostponed {
		t.Fatalf("expected postponed, got %s", session.Status)
	}
	if successor.Status != model.SessionStatusRescheduled {
		t.Fatalf("expected rescheduled, got %s", successor.Status)
	}
	if successor.OriginalSessionID == nil || *successor.OriginalSessionID != session.ID {
		t.Fatalf("expected link to the postponed session")
	}
	if !successor.DateTime.Equal(target) {
		t.Fatalf("expected successor at %v, got %v", target, successor.DateTime)
	}
	if successor.Price != session.Price || successor.Duration != session.Duration {
		t.Fatalf("expected price and duration copied")
	}
	if !strings.Contains(successor.Note, "02.03.2026") {
		t.Fatalf("expected note to reference the original date, got %q", successor.Note)
	}

	// Ровно одна замена появилась
	if got := len(tracker.SessionsOnDate(target)); got != 1 {
		t.Fatalf("expected 1 session on target date, got %d", got)
	}
}

func TestPostponeChain(t *testing.T) {
	tracker, _ := newTestTracker(sunday)
	a := materializeOne(t, tracker)
	ctx := context.Background()

	t1 := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	b, err := tracker.SetStatus(ctx, a.ID, model.SessionStatusPostponed, &t1)
	if err != nil {
		t.Fatalf("postpone a: %v", err)
	}

	t2 := time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)
	c, err := tracker.SetStatus(ctx, b.ID, model.SessionStatusPostponed, &t2)
	if err != nil {
		t.Fatalf("postpone b: %v", err)
	}

	if a.Status != model.SessionStatusPostponed {
		t.Fatalf("expected a postponed, got %s", a.Status)
	}
	if b.Status != model.SessionStatusPostponed {
		t.Fatalf("expected b postponed, got %s", b.Status)
	}
	if c.Status != model.SessionStatusRescheduled {
		t.Fatalf("expected c rescheduled, got %s", c.Status)
	}

	// Цепочка ссылок: c → b → a
	if c.OriginalSessionID == nil || *c.OriginalSessionID != b.ID {
		t.Fatalf("expected c linked to b")
	}
	parent := tracker.SessionByID(*c.OriginalSessionID)
	if parent == nil || parent.OriginalSessionID == nil || *parent.OriginalSessionID != a.ID {
		t.Fatalf("expected two hops from c to a")
	}
}

func TestPostponedStaysActionable(t *testing.T) {
	tracker, _ := newTestTracker(sunday)
	session := materializeOne(t, tracker)
	ctx := context.Background()

	target := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	if _, err := tracker.SetStatus(ctx, session.ID, model.SessionStatusPostponed, &target); err != nil {
		t.Fatalf("postpone: %v", err)
	}

	// Отложенное занятие можно потом провести или отменить
	if _, err := tracker.SetStatus(ctx, session.ID, model.SessionStatusCompleted, nil); err != nil {
		t.Fatalf("complete postponed: %v", err)
	}
	if session.Status != model.SessionStatusCompleted {
		t.Fatalf("expected completed, got %s", session.Status)
	}
}

func TestSetStatusPreconditions(t *testing.T) {
	tracker, _ := newTestTracker(sunday)
	session := materializeOne(t, tracker)
	ctx := context.Background()

	if _, err := tracker.SetStatus(ctx, uuid.New(), model.SessionStatusCompleted, nil); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	if _, err := tracker.SetStatus(ctx, session.ID, model.SessionStatusPending, nil); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	// Перенос без даты отклоняется и ничего не меняет
	if _, err := tracker.SetStatus(ctx, session.ID, model.SessionStatusPostponed, nil); !errors.Is(err, ErrPostponeDateRequired) {
		t.Fatalf("expected ErrPostponeDateRequired, got %v", err)
	}
	if session.Status != model.SessionStatusPending {
		t.Fatalf("expected status untouched after rejection, got %s", session.Status)
	}

	if _, err := tracker.SetStatus(ctx, session.ID, model.SessionStatusCancelled, nil); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// Терминальный статус дальше не меняется
	if _, err := tracker.SetStatus(ctx, session.ID, model.SessionStatusCompleted, nil); !errors.Is(err, ErrSessionFinalized) {
		t.Fatalf("expected ErrSessionFinalized, got %v", err)
	}
}
