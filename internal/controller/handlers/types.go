package handlers

import (
	"github.com/Freeeeeet/tutor_tracker_bot/internal/controller/state"
	"github.com/Freeeeeet/tutor_tracker_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers обрабатывает команды и диалоги оператора
type Handlers struct {
	tracker      *service.Tracker
	stateManager *state.Manager
	logger       *zap.Logger
}

// NewHandlers создаёт обработчики команд
func NewHandlers(
	tracker *service.Tracker,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		tracker:      tracker,
		stateManager: stateManager,
		logger:       logger,
	}
}
