// Package scheduler периодически находит подписки с приближающимся списанием
// и публикует напоминания о продлении.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/magabrotheeeer/subscription-billing/internal/lib/metrics"
	"github.com/magabrotheeeer/subscription-billing/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-billing/internal/models"
	"github.com/robfig/cron/v3"
)

// Repository описывает хранилище, из которого планировщик берёт подписки.
type Repository interface {
	// FindRenewalsDue возвращает подписки со списанием в [from, to), по которым
	// напоминание для текущей даты списания ещё не отправлялось.
	FindRenewalsDue(ctx context.Context, from, to time.Time) ([]*models.RenewalReminder, error)
	// MarkReminded отмечает, что напоминание о списании billingDate отправлено.
	MarkReminded(ctx context.Context, subscriptionID int, billingDate time.Time) error
}

// EventPublisher публикует события биллинга.
type EventPublisher interface {
	Publish(ctx context.Context, event models.BillingEvent) error
}

// Service рассылает напоминания о продлении по расписанию.
type Service struct {
	repo      Repository
	events    EventPublisher
	lookahead time.Duration
	log       *slog.Logger
	now       func() time.Time
}

// New создает новый экземпляр Service.
func New(repo Repository, events EventPublisher, lookahead time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		events:    events,
		lookahead: lookahead,
		log:       log,
		now:       time.Now,
	}
}

// RunOnce публикует напоминание для каждой подписки со списанием в ближайшие
// lookahead и возвращает число опубликованных событий. Каждая дата списания
// напоминается один раз, даже если окна соседних запусков пересекаются.
// Ошибка публикации одного напоминания не прерывает остальные.
func (s *Service) RunOnce(ctx context.Context) (int, error) {
	const op = "scheduler.RunOnce"

	from := s.now().UTC()
	to := from.Add(s.lookahead)
	s.log.Info("looking for upcoming renewals", slog.Time("from", from), slog.Time("to", to))

	reminders, err := s.repo.FindRenewalsDue(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(reminders) == 0 {
		s.log.Info("no upcoming renewals found")
		return 0, nil
	}

	published := 0
	for _, r := range reminders {
		ev := models.BillingEvent{
			ID:             uuid.NewString(),
			Type:           models.EventRenewalUpcoming,
			SubscriptionID: r.SubscriptionID,
			UserID:         r.UserID,
			Email:          r.Email,
			Name:           r.Name,
			PlanName:       r.PlanName,
			Amount:         r.Amount,
			Message:        r.NextBillingDate.Format(time.DateOnly),
			OccurredAt:     from,
		}
		if err := s.events.Publish(ctx, ev); err != nil {
			s.log.Error("failed to publish renewal reminder",
				slog.Int("subscription_id", r.SubscriptionID), sl.Err(err))
			continue
		}
		published++
		metrics.RemindersPublished.Inc()
		if err := s.repo.MarkReminded(ctx, r.SubscriptionID, r.NextBillingDate); err != nil {
			s.log.Warn("failed to mark renewal reminder as sent",
				slog.Int("subscription_id", r.SubscriptionID), sl.Err(err))
		}
	}
	s.log.Info("renewal reminders published", slog.Int("count", published), slog.Int("found", len(reminders)))
	return published, nil
}

// Start выполняет RunOnce сразу и затем по расписанию schedule в формате cron
// (например "@every 12h"). Блокирует до отмены ctx.
func (s *Service) Start(ctx context.Context, schedule string) error {
	const op = "scheduler.Start"

	c := cron.New(cron.WithLocation(time.UTC))
	if _, err := c.AddFunc(schedule, func() { s.tick(ctx) }); err != nil {
		return fmt.Errorf("%s: invalid schedule %q: %w", op, schedule, err)
	}

	s.tick(ctx)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	s.log.Info("scheduler stopped")
	return nil
}

func (s *Service) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := s.RunOnce(ctx); err != nil {
		s.log.Error("renewal reminder run failed", sl.Err(err))
	}
}
