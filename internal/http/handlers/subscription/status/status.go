// Package status реализует HTTP-обработчик получения подписки с историей платежей.
package status

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/subscription-billing/internal/http/response"
	"github.com/magabrotheeeer/subscription-billing/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-billing/internal/models"
)

// Handler обрабатывает GET /subscriptions/status/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения подписки.
type Service interface {
	Status(ctx context.Context, id int) (*models.SubscriptionDetails, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статус подписки
// @Description Подписка с пользователем, планом и всеми платежами, новые первыми.
// @Tags Subscriptions
// @Produce json
// @Param id path int true "ID подписки"
// @Success 200 {object} models.SubscriptionDetails
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /subscriptions/status/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid subscription id")
		return
	}

	details, err := h.service.Status(r.Context(), id)
	if err != nil {
		if response.StatusCode(err) == http.StatusNotFound {
			log.Info("subscription not found", slog.Int("id", id))
			response.Fail(w, r, http.StatusNotFound, "Subscription not found")
			return
		}
		log.Error("failed to read subscription", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not read subscription")
		return
	}
	if details.Payments == nil {
		details.Payments = []*models.Payment{}
	}

	response.JSON(w, r, http.StatusOK, details)
}
