// Package simulate реализует HTTP-обработчик попытки оплаты подписки.
//
// Обработчик держит запрос на время задержки платёжной системы (1-3 секунды)
// и возвращает 200 при успешной оплате и 400 при отказе. В обоих случаях
// платёж записывается в журнал.
package simulate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/subscription-billing/internal/http/response"
	"github.com/magabrotheeeer/subscription-billing/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-billing/internal/models"
	"github.com/magabrotheeeer/subscription-billing/internal/services/subscription"
)

// Response тело ответа на попытку оплаты.
type Response struct {
	Success       bool                 `json:"success"`
	TransactionID string               `json:"transaction_id" example:"txn_20250115123456"`
	Message       string               `json:"message" example:"Payment processed successfully"`
	ErrorCode     string               `json:"error_code,omitempty" example:"card_declined"`
	ErrorReason   string               `json:"error_reason,omitempty" example:"expired_card"`
	Amount        decimal.Decimal      `json:"amount" swaggertype:"number" example:"9.99"`
	Currency      string               `json:"currency" example:"USD"`
	Status        models.PaymentStatus `json:"status" example:"completed"`
	ProcessedAt   time.Time            `json:"processed_at"`
}

// Handler обрабатывает POST /payment/simulate.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс проведения оплаты.
type Service interface {
	ProcessPayment(ctx context.Context, req models.PaymentRequest) (*subscription.PaymentOutcome, error)
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
// @Summary Оплатить подписку
// @Description Проводит попытку оплаты подписки в статусе pending. force_success и
// @Description force_failure_reason позволяют задать исход.
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body models.PaymentRequest true "Параметры оплаты"
// @Success 200 {object} simulate.Response "Оплата прошла"
// @Failure 400 {object} simulate.Response "Отказ платёжной системы"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 500 {object} response.ErrorResponse
// @Router /payment/simulate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.simulate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "Missing subscription_id")
		return
	}

	out, err := h.service.ProcessPayment(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			log.Info("subscription not found", slog.Int("subscription_id", req.SubscriptionID))
			response.Fail(w, r, http.StatusNotFound, "Subscription not found")
		case errors.Is(err, models.ErrInvalidState):
			log.Info("subscription is not pending", slog.Int("subscription_id", req.SubscriptionID))
			response.Fail(w, r, http.StatusBadRequest, "Subscription is not in pending state")
		default:
			log.Error("failed to process payment", sl.Err(err))
			response.Fail(w, r, http.StatusInternalServerError, "could not process payment")
		}
		return
	}

	res := out.Result
	body := Response{
		Success:       res.Success,
		TransactionID: res.TransactionID,
		Message:       "Payment processed successfully",
		Amount:        res.Amount,
		Currency:      res.Currency,
		Status:        res.Status,
		ProcessedAt:   res.ProcessedAt,
	}
	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadRequest
		body.Message = res.Failure.Message
		body.ErrorCode = res.Failure.Code
		body.ErrorReason = res.Failure.Reason
	}

	log.Info("payment attempt finished",
		slog.Int("subscription_id", req.SubscriptionID),
		slog.Bool("success", res.Success),
		slog.String("transaction_id", res.TransactionID))
	response.JSON(w, r, status, body)
}
