package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventType тип события биллинга, он же routing key в RabbitMQ.
type EventType string

const (
	EventSubscriptionCreated  EventType = "subscription.created"
	EventPaymentCompleted     EventType = "payment.completed"
	EventPaymentFailed        EventType = "payment.failed"
	EventSubscriptionRenewed  EventType = "subscription.renewed"
	EventSubscriptionCanceled EventType = "subscription.cancelled"
	EventRenewalUpcoming      EventType = "subscription.renewal_upcoming"
)

// BillingEvent сообщение о переходе подписки, публикуемое в обменник биллинга.
type BillingEvent struct {
	ID             string          `json:"id"`
	Type           EventType       `json:"type"`
	SubscriptionID int             `json:"subscription_id"`
	UserID         int             `json:"user_id"`
	Email          string          `json:"email"`
	Name           string          `json:"name,omitempty"`
	PlanName       string          `json:"plan_name,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Message        string          `json:"message,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at"`
}
