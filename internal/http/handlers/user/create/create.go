// Package create реализует HTTP-обработчик регистрации пользователя.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-billing/internal/http/response"
	"github.com/magabrotheeeer/subscription-billing/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-billing/internal/models"
)

// Handler обрабатывает POST /users.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс регистрации пользователя.
type Service interface {
	Register(ctx context.Context, email, name string) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Зарегистрировать пользователя
// @Tags Users
// @Accept json
// @Produce json
// @Param request body models.CreateUserRequest true "Email и имя"
// @Success 201 {object} models.User
// @Failure 400 {object} response.ErrorResponse "Нет обязательных полей или email занят"
// @Failure 500 {object} response.ErrorResponse
// @Router /users [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		if response.FailedOn(err, "email") {
			response.Fail(w, r, http.StatusBadRequest, "Invalid email address")
			return
		}
		response.Fail(w, r, http.StatusBadRequest, "Missing email or name")
		return
	}

	u, err := h.service.Register(r.Context(), req.Email, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrConflict):
			log.Info("email already registered")
			response.Fail(w, r, http.StatusBadRequest, "User with this email already exists")
		case errors.Is(err, models.ErrValidation):
			response.Fail(w, r, http.StatusBadRequest, "Missing email or name")
		default:
			log.Error("failed to register user", sl.Err(err))
			response.Fail(w, r, http.StatusInternalServerError, "could not create user")
		}
		return
	}

	log.Info("user created", slog.Int("user_id", u.ID))
	response.JSON(w, r, http.StatusCreated, u)
}
