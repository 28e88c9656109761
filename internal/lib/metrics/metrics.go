// Package metrics содержит счётчики Prometheus для биллинга.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PaymentAttempts считает попытки оплаты по итогу и причине отказа.
	PaymentAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_payment_attempts_total",
		Help: "Number of simulated payment attempts by outcome.",
	}, []string{"status", "reason"})

	// SubscriptionTransitions считает переходы машины состояний подписки.
	SubscriptionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billing_subscription_transitions_total",
		Help: "Number of subscription status transitions.",
	}, []string{"from", "to"})

	// HTTPRequestDuration время обработки запроса по шаблону маршрута.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "billing_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// RemindersPublished считает опубликованные напоминания о продлении.
	RemindersPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billing_renewal_reminders_published_total",
		Help: "Number of renewal reminders published.",
	})
)
