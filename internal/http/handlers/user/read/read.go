// Package read реализует HTTP-обработчик поиска пользователя по email.
package read

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/subscription-billing/internal/http/response"
	"github.com/magabrotheeeer/subscription-billing/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-billing/internal/models"
)

// Handler обрабатывает GET /users/{email}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс поиска пользователя.
type Service interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Пользователь по email
// @Tags Users
// @Produce json
// @Param email path string true "Email пользователя"
// @Success 200 {object} models.User
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /users/{email} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	// chi отдаёт сегмент из RawPath, поэтому %40 и прочее нужно раскодировать.
	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil {
		log.Info("invalid email in path", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid email")
		return
	}
	u, err := h.service.GetByEmail(r.Context(), email)
	if err != nil {
		if response.StatusCode(err) == http.StatusNotFound {
			log.Info("user not found")
			response.Fail(w, r, http.StatusNotFound, "User not found")
			return
		}
		log.Error("failed to find user", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not find user")
		return
	}

	response.JSON(w, r, http.StatusOK, u)
}
