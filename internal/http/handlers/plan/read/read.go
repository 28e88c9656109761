// Package read реализует HTTP-обработчик получения тарифного плана по ID.
package read

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

// Handler обрабатывает GET /plans/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс каталога планов.
type Service interface {
	Get(ctx context.Context, id int) (*models.Plan, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Тарифный план
// @Tags Plans
// @Produce json
// @Param id path int true "ID плана"
// @Success 200 {object} models.Plan
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /plans/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid plan id")
		return
	}

	plan, err := h.service.Get(r.Context(), id)
	if err != nil {
		status := response.StatusCode(err)
		if status == http.StatusNotFound {
			log.Info("plan not found", slog.Int("id", id))
			response.Fail(w, r, status, "Plan not found")
			return
		}
		log.Error("failed to get plan", sl.Err(err))
		response.Fail(w, r, http.StatusInternalServerError, "could not get plan")
		return
	}

	response.JSON(w, r, http.StatusOK, plan)
}
