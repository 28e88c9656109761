// Package cancel реализует HTTP-обработчик отмены подписки.
package cancel

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

// Response тело ответа на успешную отмену.
type Response struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Subscription cancelled. It will remain active until the end of the billing period."`
}

// Handler обрабатывает POST /subscriptions/{id}/cancel.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс отмены подписки.
type Service interface {
	Cancel(ctx context.Context, id int) (*models.Subscription, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить подписку
// @Description Переводит подписку в cancelled и выключает автопродление.
// @Tags Subscriptions
// @Produce json
// @Param id path int true "ID подписки"
// @Success 200 {object} cancel.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /subscriptions/{id}/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancel"
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

	if _, err := h.service.Cancel(r.Context(), id); err != nil {
		if response.StatusCode(err) == http.StatusNotFound {
			log.Info("subscription not found", slog.Int("id", id))
			response.Fail(w, r, http.StatusNotFound, "Subscription not found")
			return
		}
		log.Error("failed to cancel subscription", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not cancel subscription")
		return
	}

	log.Info("subscription cancelled", slog.Int("id", id))
	response.JSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: "Subscription cancelled. It will remain active until the end of the billing period.",
	})
}
