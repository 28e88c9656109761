package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus итог попытки оплаты.
type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment запись журнала платежей. Журнал только дополняется:
// по одной строке на каждую попытку, успешную или нет.
type Payment struct {
	ID             int             `json:"id"`
	SubscriptionID int             `json:"-"`
	Amount         decimal.Decimal `json:"amount"`
	Status         PaymentStatus   `json:"status"`
	PaymentDate    time.Time       `json:"payment_date"`
	TransactionID  string          `json:"transaction_id"`
}

// PaymentRequest используется для приёма параметров симуляции оплаты.
// ForceSuccess, если передан, определяет исход; ForceFailureReason
// принудительно выбирает причину отказа.
type PaymentRequest struct {
	SubscriptionID     int            `json:"subscription_id" validate:"required"`
	PaymentMethod      map[string]any `json:"payment_method,omitempty"`
	ForceSuccess       *bool          `json:"force_success,omitempty"`
	ForceFailureReason string         `json:"force_failure_reason,omitempty"`
}
