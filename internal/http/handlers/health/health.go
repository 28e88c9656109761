// Package health отвечает на проверку доступности API.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/subscription-billing/internal/http/response"
)

// Response тело ответа проверки доступности.
type Response struct {
	Status  string `json:"status" example:"healthy"`
	Message string `json:"message" example:"Subscription API is running"`
}

// Handler обрабатывает GET /health.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
	}
}

// ServeHTTP godoc
// @Summary Проверка доступности
// @Tags Health
// @Produce json
// @Success 200 {object} health.Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"
	h.log.Debug("health check",
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	response.JSON(w, r, http.StatusOK, Response{
		Status:  "healthy",
		Message: "Subscription API is running",
	})
}
