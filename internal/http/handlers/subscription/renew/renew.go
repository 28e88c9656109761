// Package renew реализует HTTP-обработчик продления подписки.
package renew

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/subscription-billing/internal/http/response"
	"github.com/magabrotheeeer/subscription-billing/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-billing/internal/models"
	"github.com/magabrotheeeer/subscription-billing/internal/services/subscription"
)

// Response тело ответа на успешное продление.
type Response struct {
	Success       bool      `json:"success" example:"true"`
	TransactionID string    `json:"transaction_id" example:"txn_20250115123456"`
	NewEndDate    time.Time `json:"new_end_date"`
	Message       string    `json:"message" example:"Subscription renewed successfully"`
}

// Handler обрабатывает POST /subscriptions/{id}/renew.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс продления подписки.
type Service interface {
	Renew(ctx context.Context, id int) (*subscription.Renewal, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Продлить подписку
// @Description Продлевает активную подписку на один период от текущей даты окончания.
// @Tags Subscriptions
// @Produce json
// @Param id path int true "ID подписки"
// @Success 200 {object} renew.Response
// @Failure 400 {object} response.ErrorResponse "Подписку нельзя продлить"
// @Failure 404 {object} response.ErrorResponse
// @Router /subscriptions/{id}/renew [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.renew"
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

	renewal, err := h.service.Renew(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			log.Info("subscription not found", slog.Int("id", id))
			response.Fail(w, r, http.StatusNotFound, "Subscription not found")
		case errors.Is(err, models.ErrInvalidState):
			log.Info("subscription cannot be renewed", slog.Int("id", id), sl.Err(err))
			response.Fail(w, r, http.StatusBadRequest, "Subscription cannot be renewed")
		default:
			log.Error("failed to renew subscription", sl.Err(err))
			response.Fail(w, r, http.StatusInternalServerError, "could not renew subscription")
		}
		return
	}

	log.Info("subscription renewed", slog.Int("id", id), slog.Time("new_end_date", renewal.NewEndDate))
	response.JSON(w, r, http.StatusOK, Response{
		Success:       true,
		TransactionID: renewal.Payment.TransactionID,
		NewEndDate:    renewal.NewEndDate,
		Message:       "Subscription renewed successfully",
	})
}
