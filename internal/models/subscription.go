package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionStatus состояние подписки в машине состояний биллинга.
type SubscriptionStatus string

const (
	StatusPending       SubscriptionStatus = "pending"
	StatusActive        SubscriptionStatus = "active"
	StatusPaymentFailed SubscriptionStatus = "payment_failed"
	StatusCancelled     SubscriptionStatus = "cancelled"
	// StatusTrialing и StatusExpiringSoon сейчас не выставляются ни одним переходом,
	// но учитываются в проверках.
	StatusTrialing     SubscriptionStatus = "trialing"
	StatusExpiringSoon SubscriptionStatus = "expiring_soon"
)

// OpenStatuses статусы, при которых у пользователя уже есть действующая подписка.
var OpenStatuses = []SubscriptionStatus{StatusActive, StatusTrialing, StatusPending}

// IsOpen сообщает, блокирует ли статус создание новой подписки.
func (s SubscriptionStatus) IsOpen() bool {
	for _, open := range OpenStatuses {
		if s == open {
			return true
		}
	}
	return false
}

// Renewable сообщает, можно ли продлить подписку в этом статусе.
func (s SubscriptionStatus) Renewable() bool {
	return s == StatusActive || s == StatusExpiringSoon
}

// Subscription основная модель подписки, используемая в бизнес-логике и хранилище.
// NextBillingDate может быть nil; если задан, равен EndDate на момент
// создания или последнего продления.
type Subscription struct {
	ID              int                `json:"id"`
	UserID          int                `json:"user_id"`
	PlanID          int                `json:"plan_id"`
	Status          SubscriptionStatus `json:"status"`
	StartDate       time.Time          `json:"start_date"`
	EndDate         time.Time          `json:"end_date"`
	NextBillingDate *time.Time         `json:"next_billing_date"`
	AutoRenew       bool               `json:"auto_renew"`
	CreatedAt       time.Time          `json:"-"`
}

// SubscriptionDetails подписка вместе с владельцем, планом и историей платежей.
type SubscriptionDetails struct {
	Subscription
	User     User       `json:"user"`
	Plan     Plan       `json:"plan"`
	Payments []*Payment `json:"payments"`
}

// SubscriptionSummary элемент списка подписок пользователя.
type SubscriptionSummary struct {
	Subscription
	PlanName     string          `json:"plan_name"`
	Price        decimal.Decimal `json:"price"`
	BillingCycle BillingCycle    `json:"billing_cycle"`
	Features     []string        `json:"features"`
	LastPayment  *LastPayment    `json:"last_payment"`
}

// LastPayment краткие сведения о последней попытке оплаты.
type LastPayment struct {
	Status        PaymentStatus `json:"status"`
	TransactionID string        `json:"transaction_id"`
	PaymentDate   time.Time     `json:"payment_date"`
}

// RenewalReminder данные для напоминания о предстоящем списании.
type RenewalReminder struct {
	SubscriptionID  int             `json:"subscription_id"`
	UserID          int             `json:"user_id"`
	Email           string          `json:"email"`
	Name            string          `json:"name"`
	PlanName        string          `json:"plan_name"`
	Amount          decimal.Decimal `json:"amount"`
	NextBillingDate time.Time       `json:"next_billing_date"`
}

// SubscribeRequest используется для приёма данных новой подписки из JSON-запроса.
type SubscribeRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name" validate:"required"`
	PlanID int    `json:"plan_id" validate:"required"`
}
