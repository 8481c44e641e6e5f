package state

import (
	"sync"
)

// Manager управляет состояниями диалогов по чатам
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*UserData // chatID -> UserData
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		states: make(map[int64]*UserData),
	}
}

// GetState получает текущее состояние чата
func (sm *Manager) GetState(chatID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[chatID]; exists {
		return userData.State
	}
	return StateNone
}

// SetState устанавливает состояние чата
func (sm *Manager) SetState(chatID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		delete(sm.states, chatID)
		return
	}

	if _, exists := sm.states[chatID]; !exists {
		sm.states[chatID] = &UserData{
			State: state,
			Data:  make(map[string]interface{}),
		}
	} else {
		sm.states[chatID].State = state
	}
}

// GetData получает временные данные диалога
func (sm *Manager) GetData(chatID int64, key string) (interface{}, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[chatID]; exists {
		value, ok := userData.Data[key]
		return value, ok
	}
	return nil, false
}

// SetData устанавливает временные данные диалога
func (sm *Manager) SetData(chatID int64, key string, value interface{}) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.states[chatID]; !exists {
		sm.states[chatID] = &UserData{
			State: StateNone,
			Data:  make(map[string]interface{}),
		}
	}
	sm.states[chatID].Data[key] = value
}

// ClearState очищает состояние и данные чата
func (sm *Manager) ClearState(chatID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, chatID)
}
