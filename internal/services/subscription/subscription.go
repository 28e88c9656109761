// Package subscription реализует машину состояний подписки: создание,
// оплату, продление и отмену.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/magabrotheeeer/subscription-billing/internal/lib/metrics"
	"github.com/magabrotheeeer/subscription-billing/internal/lib/period"
	"github.com/magabrotheeeer/subscription-billing/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-billing/internal/models"
	"github.com/magabrotheeeer/subscription-billing/internal/paymentprovider"
	"github.com/shopspring/decimal"
)

// ErrAlreadySubscribed возвращается, если у пользователя уже есть открытая подписка.
var ErrAlreadySubscribed = fmt.Errorf("user already has an active subscription: %w", models.ErrConflict)

// Repository определяет методы хранилища подписок и платежей.
type Repository interface {
	// CreateSubscription сохраняет подписку. ErrConflict, если у пользователя
	// уже есть открытая подписка.
	CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)

	// FindOpenSubscription возвращает открытую подписку пользователя или ErrNotFound.
	FindOpenSubscription(ctx context.Context, userID int) (*models.Subscription, error)

	// GetSubscriptionDetails возвращает подписку с планом, пользователем и платежами.
	GetSubscriptionDetails(ctx context.Context, id int) (*models.SubscriptionDetails, error)

	// ListSubscriptionsByUser возвращает подписки пользователя с последним платежом.
	ListSubscriptionsByUser(ctx context.Context, userID int) ([]*models.SubscriptionSummary, error)

	// ApplyPaymentOutcome переводит pending-подписку в status и пишет платёж
	// одной транзакцией. ErrInvalidState, если подписка уже не pending.
	ApplyPaymentOutcome(ctx context.Context, subscriptionID int, status models.SubscriptionStatus,
		payment models.Payment) (*models.Payment, error)

	// RenewSubscription сдвигает end_date с oldEnd на newEnd и пишет платёж.
	RenewSubscription(ctx context.Context, subscriptionID int, oldEnd, newEnd time.Time,
		payment models.Payment) (*models.Payment, error)

	// CancelSubscription переводит подписку в cancelled и выключает автопродление.
	CancelSubscription(ctx context.Context, id int) (*models.Subscription, error)
}

// PlanCatalog возвращает активные планы.
type PlanCatalog interface {
	Get(ctx context.Context, id int) (*models.Plan, error)
}

// Users находит или создаёт владельца подписки.
type Users interface {
	GetOrCreate(ctx context.Context, email, name string) (*models.User, error)
}

// PaymentProvider проводит попытки оплаты.
type PaymentProvider interface {
	Charge(ctx context.Context, amount decimal.Decimal, o paymentprovider.Override) (*paymentprovider.Result, error)
	NewTransactionID() string
}

// EventPublisher публикует события биллинга.
type EventPublisher interface {
	Publish(ctx context.Context, event models.BillingEvent) error
}

// PaymentOutcome итог обработки попытки оплаты.
type PaymentOutcome struct {
	Result  *paymentprovider.Result
	Payment *models.Payment
	Status  models.SubscriptionStatus
}

// Renewal итог продления подписки.
type Renewal struct {
	Payment    *models.Payment
	NewEndDate time.Time
}

// Service управляет жизненным циклом подписок.
type Service struct {
	repo     Repository
	plans    PlanCatalog
	users    Users
	payments PaymentProvider
	events   EventPublisher
	log      *slog.Logger
	now      func() time.Time
}

// New создает новый экземпляр Service. events может быть nil.
func New(repo Repository, plans PlanCatalog, users Users, payments PaymentProvider,
	events EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		plans:    plans,
		users:    users,
		payments: payments,
		events:   events,
		log:      log,
		now:      time.Now,
	}
}

// Subscribe создаёт подписку в статусе pending для пользователя с email,
// создавая пользователя при необходимости. Период считается от текущего
// момента по циклу плана.
func (s *Service) Subscribe(ctx context.Context, req models.SubscribeRequest) (*models.Subscription, error) {
	const op = "subscription.Subscribe"

	plan, err := s.plans.Get(ctx, req.PlanID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.GetOrCreate(ctx, req.Email, req.Name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Проверка даёт понятную ошибку; гонку закрывает уникальный индекс.
	existing, err := s.repo.FindOpenSubscription(ctx, user.ID)
	if err == nil && existing.Status.IsOpen() {
		return nil, fmt.Errorf("%s: %w", op, ErrAlreadySubscribed)
	}
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	status, err := nextStatus("", eventCreate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	start := s.now().UTC()
	end, err := period.End(start, plan.BillingCycle)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	next := end

	sub, err := s.repo.CreateSubscription(ctx, models.Subscription{
		UserID:          user.ID,
		PlanID:          plan.ID,
		Status:          status,
		StartDate:       start,
		EndDate:         end,
		NextBillingDate: &next,
		AutoRenew:       true,
	})
	if errors.Is(err, models.ErrConflict) {
		return nil, fmt.Errorf("%s: %w", op, ErrAlreadySubscribed)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscription created",
		slog.Int("subscription_id", sub.ID), slog.Int("user_id", user.ID), slog.Int("plan_id", plan.ID))
	s.transition("", status)
	s.publish(ctx, models.BillingEvent{
		Type:           models.EventSubscriptionCreated,
		SubscriptionID: sub.ID,
		UserID:         user.ID,
		Email:          user.Email,
		Name:           user.Name,
		PlanName:       plan.Name,
		Amount:         plan.Price,
	})
	return sub, nil
}

// ProcessPayment проводит попытку оплаты подписки в статусе pending.
// Задержка платёжной системы проходит без удержания соединения с хранилищем;
// статус и платёж записываются одной транзакцией после неё.
func (s *Service) ProcessPayment(ctx context.Context, req models.PaymentRequest) (*PaymentOutcome, error) {
	const op = "subscription.ProcessPayment"

	d, err := s.repo.GetSubscriptionDetails(ctx, req.SubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if d.Status != models.StatusPending {
		return nil, fmt.Errorf("%s: subscription is %s: %w", op, d.Status, models.ErrInvalidState)
	}

	res, err := s.payments.Charge(ctx, d.Plan.Price, paymentprovider.Override{
		ForceSuccess:       req.ForceSuccess,
		ForceFailureReason: req.ForceFailureReason,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ev, reason := eventPaymentSuccess, ""
	if !res.Success {
		ev, reason = eventPaymentFailure, res.Failure.Reason
	}
	to, err := nextStatus(d.Status, ev)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	saved, err := s.repo.ApplyPaymentOutcome(ctx, d.ID, to, models.Payment{
		Amount:        res.Amount,
		Status:        res.Status,
		TransactionID: res.TransactionID,
	})
	if errors.Is(err, models.ErrConflict) {
		// Совпадение transaction_id не обрабатывается особо и уходит клиенту как сбой.
		return nil, fmt.Errorf("%s: transaction id collision: %v", op, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.PaymentAttempts.WithLabelValues(string(res.Status), reason).Inc()
	s.transition(d.Status, to)
	s.log.Info("payment processed",
		slog.Int("subscription_id", d.ID),
		slog.String("transaction_id", res.TransactionID),
		slog.String("status", string(res.Status)),
		slog.String("reason", reason))

	billingEvent := models.BillingEvent{
		Type:           models.EventPaymentCompleted,
		SubscriptionID: d.ID,
		UserID:         d.User.ID,
		Email:          d.User.Email,
		Name:           d.User.Name,
		PlanName:       d.Plan.Name,
		Amount:         res.Amount,
	}
	if !res.Success {
		billingEvent.Type = models.EventPaymentFailed
		billingEvent.Message = res.Failure.Message
	}
	s.publish(ctx, billingEvent)

	return &PaymentOutcome{Result: res, Payment: saved, Status: to}, nil
}

// Renew продлевает подписку в статусе active или expiring_soon на один цикл
// плана от текущей даты окончания и записывает завершённый платёж.
// Продление не проходит через симулятор оплаты.
func (s *Service) Renew(ctx context.Context, id int) (*Renewal, error) {
	const op = "subscription.Renew"

	d, err := s.repo.GetSubscriptionDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	to, err := nextStatus(d.Status, eventRenew)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	newEnd, err := period.End(d.EndDate, d.Plan.BillingCycle)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	saved, err := s.repo.RenewSubscription(ctx, d.ID, d.EndDate, newEnd, models.Payment{
		Amount:        d.Plan.Price,
		Status:        models.PaymentCompleted,
		TransactionID: s.payments.NewTransactionID(),
	})
	if errors.Is(err, models.ErrConflict) {
		return nil, fmt.Errorf("%s: transaction id collision: %v", op, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.transition(d.Status, to)
	s.log.Info("subscription renewed",
		slog.Int("subscription_id", d.ID), slog.Time("new_end_date", newEnd))
	s.publish(ctx, models.BillingEvent{
		Type:           models.EventSubscriptionRenewed,
		SubscriptionID: d.ID,
		UserID:         d.User.ID,
		Email:          d.User.Email,
		Name:           d.User.Name,
		PlanName:       d.Plan.Name,
		Amount:         d.Plan.Price,
	})
	return &Renewal{Payment: saved, NewEndDate: newEnd}, nil
}

// Cancel переводит подписку в cancelled из любого статуса и выключает автопродление.
func (s *Service) Cancel(ctx context.Context, id int) (*models.Subscription, error) {
	const op = "subscription.Cancel"

	d, err := s.repo.GetSubscriptionDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	to, err := nextStatus(d.Status, eventCancel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sub, err := s.repo.CancelSubscription(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.transition(d.Status, to)
	s.log.Info("subscription cancelled", slog.Int("subscription_id", id))
	s.publish(ctx, models.BillingEvent{
		Type:           models.EventSubscriptionCanceled,
		SubscriptionID: id,
		UserID:         d.User.ID,
		Email:          d.User.Email,
		Name:           d.User.Name,
		PlanName:       d.Plan.Name,
		Amount:         d.Plan.Price,
	})
	return sub, nil
}

// Status возвращает подписку с пользователем, планом и историей платежей.
func (s *Service) Status(ctx context.Context, id int) (*models.SubscriptionDetails, error) {
	const op = "subscription.Status"

	d, err := s.repo.GetSubscriptionDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}

// ListByUser возвращает подписки пользователя, новые первыми.
func (s *Service) ListByUser(ctx context.Context, userID int) ([]*models.SubscriptionSummary, error) {
	const op = "subscription.ListByUser"

	list, err := s.repo.ListSubscriptionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func (s *Service) transition(from, to models.SubscriptionStatus) {
	label := string(from)
	if label == "" {
		label = "none"
	}
	metrics.SubscriptionTransitions.WithLabelValues(label, string(to)).Inc()
}

// publish отправляет событие без влияния на исход операции.
func (s *Service) publish(ctx context.Context, ev models.BillingEvent) {
	if s.events == nil {
		return
	}
	ev.ID = uuid.NewString()
	ev.OccurredAt = s.now().UTC()
	if err := s.events.Publish(context.WithoutCancel(ctx), ev); err != nil {
		s.log.Warn("failed to publish billing event",
			slog.String("type", string(ev.Type)), slog.Int("subscription_id", ev.SubscriptionID), sl.Err(err))
	}
}
