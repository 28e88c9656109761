// Package create реализует HTTP-обработчик оформления подписки.
//
// Handler принимает email, имя и ID плана, создаёт подписку в статусе pending
// и возвращает её идентификатор. Пользователь создаётся при первом обращении.
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

// Response тело ответа на успешное оформление подписки.
type Response struct {
	SubscriptionID int                       `json:"subscription_id" example:"1"`
	Status         models.SubscriptionStatus `json:"status" example:"pending"`
	Message        string                    `json:"message" example:"Subscription created. Proceed to payment."`
}

// Handler управляет HTTP-запросами на оформление подписок.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики оформления подписки.
type Service interface {
	Subscribe(ctx context.Context, req models.SubscribeRequest) (*models.Subscription, error)
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
// @Summary Оформить подписку
// @Description Создает подписку в статусе pending. Следующий шаг: оплата через /payment/simulate.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body models.SubscribeRequest true "Пользователь и план"
// @Success 201 {object} create.Response
// @Failure 400 {object} response.ErrorResponse "Нет обязательных полей или уже есть активная подписка"
// @Failure 404 {object} response.ErrorResponse "План не найден"
// @Failure 500 {object} response.ErrorResponse
// @Router /subscribe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msg := "Missing required fields"
			if response.FailedOn(err, "email") {
				msg = "Invalid email address"
			}
			response.JSON(w, r, http.StatusBadRequest, response.ValidationError(msg, verrs))
			return
		}
		response.Fail(w, r, http.StatusBadRequest, "Missing required fields")
		return
	}

	sub, err := h.service.Subscribe(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			log.Info("plan not found", slog.Int("plan_id", req.PlanID))
			response.Fail(w, r, http.StatusNotFound, "Plan not found")
		case errors.Is(err, models.ErrConflict):
			log.Info("user already subscribed", slog.String("email", req.Email))
			response.Fail(w, r, http.StatusBadRequest, "User already has an active subscription")
		case errors.Is(err, models.ErrValidation):
			log.Info("invalid subscribe request", sl.Err(err))
			response.Fail(w, r, http.StatusBadRequest, "Missing required fields")
		default:
			log.Error("failed to create subscription", sl.Err(err))
			response.Fail(w, r, http.StatusInternalServerError, "could not create subscription")
		}
		return
	}

	log.Info("subscription created", slog.Int("subscription_id", sub.ID))
	response.JSON(w, r, http.StatusCreated, Response{
		SubscriptionID: sub.ID,
		Status:         sub.Status,
		Message:        "Subscription created. Proceed to payment.",
	})
}
