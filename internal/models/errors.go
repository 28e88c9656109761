package models

import "errors"

// Таксономия ошибок. Хранилище и сервисы оборачивают их через %w,
// HTTP-слой различает их через errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation error")
)
