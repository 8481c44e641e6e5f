package service

import "errors"

// Ошибки нарушения предусловий и "не найдено".
// Операция, вернувшая такую ошибку, не меняет состояние.
var (
	ErrStudentNotFound      = errors.New("student not found")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSlotNotFound         = errors.New("recurring slot not found for weekday")
	ErrPostponeDateRequired = errors.New("postpone requires a new date")
	ErrSessionFinalized     = errors.New("session is already completed or cancelled")
	ErrInvalidStatus        = errors.New("invalid target status")
)
