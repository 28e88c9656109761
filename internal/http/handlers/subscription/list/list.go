// Package list реализует HTTP-обработчик списка подписок пользователя.
package list

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

// Handler обрабатывает GET /subscriptions/{id}, где id это ID пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения подписок пользователя.
type Service interface {
	ListByUser(ctx context.Context, userID int) ([]*models.SubscriptionSummary, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Подписки пользователя
// @Description Возвращает подписки пользователя, новые первыми, с последним платежом.
// @Tags Subscriptions
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 200 {array} models.SubscriptionSummary
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /subscriptions/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode user id from url", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid user id")
		return
	}

	list, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not list subscriptions")
		return
	}
	if list == nil {
		list = []*models.SubscriptionSummary{}
	}

	log.Debug("subscriptions listed", slog.Int("user_id", userID), slog.Int("count", len(list)))
	response.JSON(w, r, http.StatusOK, list)
}
