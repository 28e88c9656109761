package subscription

import (
	"fmt"

	"github.com/magabrotheeeer/subscription-billing/internal/models"
)

// event событие, переводящее подписку из одного статуса в другой.
type event string

const (
	eventCreate         event = "create"
	eventPaymentSuccess event = "payment_success"
	eventPaymentFailure event = "payment_failure"
	eventRenew          event = "renew"
	eventCancel         event = "cancel"
)

// nextStatus возвращает статус после события ev или ErrInvalidState, если
// событие недопустимо в статусе from. Пустой from означает, что подписки ещё нет.
func nextStatus(from models.SubscriptionStatus, ev event) (models.SubscriptionStatus, error) {
	switch ev {
	case eventCreate:
		if from == "" {
			return models.StatusPending, nil
		}
	case eventPaymentSuccess:
		if from == models.StatusPending {
			return models.StatusActive, nil
		}
	case eventPaymentFailure:
		if from == models.StatusPending {
			return models.StatusPaymentFailed, nil
		}
	case eventRenew:
		if from.Renewable() {
			return models.StatusActive, nil
		}
	case eventCancel:
		return models.StatusCancelled, nil
	}
	return "", fmt.Errorf("%s not allowed in status %q: %w", ev, from, models.ErrInvalidState)
}
