// Package response содержит вспомогательные типы и функции для формирования
// JSON-ответов HTTP-обработчиков: ошибок, сообщений валидации и выбора
// HTTP-кода по доменной ошибке.
package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-billing/internal/models"
)

// StatusError значение поля status в ответе с ошибкой.
const StatusError = "Error"

// ErrorResponse описывает JSON-ответ с ошибкой.
// Fields перечисляет нарушения валидации, если они были.
type ErrorResponse struct {
	Status string   `json:"status" example:"Error"`
	Error  string   `json:"error" example:"Subscription not found"`
	Fields []string `json:"fields,omitempty"`
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует ErrorResponse с общим сообщением msg и
// человеко-читаемым описанием каждого нарушения.
func ValidationError(msg string, errs validator.ValidationErrors) ErrorResponse {
	fields := make([]string, 0, len(errs))
	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			fields = append(fields, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			fields = append(fields, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "min", "gt":
			fields = append(fields, fmt.Sprintf("field %s must be positive", err.Field()))
		default:
			fields = append(fields, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	resp := Error(msg)
	resp.Fields = fields
	return resp
}

// FailedOn сообщает, нарушено ли в err правило валидации tag.
func FailedOn(err error, tag string) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, fe := range verrs {
		if fe.Tag() == tag {
			return true
		}
	}
	return false
}

// StatusCode выбирает HTTP-код по доменной ошибке: NotFound даёт 404,
// Conflict, InvalidState и Validation дают 400, остальное 500.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict),
		errors.Is(err, models.ErrInvalidState),
		errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// JSON пишет v с кодом status.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

// Fail пишет ErrorResponse с кодом status.
func Fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	JSON(w, r, status, Error(msg))
}
