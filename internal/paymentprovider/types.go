package paymentprovider

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/subscription-billing/internal/models"
)

// Currency единственная поддерживаемая валюта.
const Currency = "USD"

// Override задаёт принудительный исход попытки оплаты.
// ForceSuccess, если не nil, используется как есть; иначе непустой
// ForceFailureReason означает отказ с указанной причиной.
type Override struct {
	ForceSuccess       *bool
	ForceFailureReason string
}

// Failure описывает причину отказа платёжной системы.
type Failure struct {
	Code    string `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// Failures фиксированная таксономия отказов. Порядок важен:
// неизвестная принудительная причина сводится к первому элементу.
var Failures = []Failure{
	{
		Code:    "card_declined",
		Reason:  "insufficient_funds",
		Message: "Your card was declined due to insufficient funds. Please use a different payment method.",
	},
	{
		Code:    "card_declined",
		Reason:  "generic_decline",
		Message: "Your card was declined. Please contact your bank or use a different card.",
	},
	{
		Code:    "card_declined",
		Reason:  "expired_card",
		Message: "Your card has expired. Please use a different payment method.",
	},
	{
		Code:    "processing_error",
		Reason:  "network_error",
		Message: "Payment processing encountered a network error. Please try again.",
	},
	{
		Code:    "authentication_required",
		Reason:  "3d_secure_failed",
		Message: "Payment authentication failed. Please try again with a different card.",
	},
	{
		Code:    "card_declined",
		Reason:  "lost_card",
		Message: "Your card was declined. Please contact your bank.",
	},
	{
		Code:    "card_declined",
		Reason:  "stolen_card",
		Message: "Your card was declined for security reasons. Please use a different payment method.",
	},
}

// FailureByReason возвращает элемент таксономии с указанной причиной.
// Для неизвестной причины возвращается Failures[0], а не ошибка.
func FailureByReason(reason string) Failure {
	for _, f := range Failures {
		if f.Reason == reason {
			return f
		}
	}
	return Failures[0]
}

// Result итог попытки оплаты. Failure заполнен только при отказе.
type Result struct {
	Success       bool
	TransactionID string
	Amount        decimal.Decimal
	Currency      string
	Status        models.PaymentStatus
	ProcessedAt   time.Time
	Failure       *Failure
}
