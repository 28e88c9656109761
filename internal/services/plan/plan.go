// Package plan реализует каталог тарифных планов: однократное засевание,
// чтение активных планов и кэширование в Redis.
package plan

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/magabrotheeeer/subscription-billing/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-billing/internal/models"
)

const (
	activePlansKey = "plans:active"
	cacheTTL       = time.Hour
)

// Repository определяет методы хранилища планов.
type Repository interface {
	// SeedPlans вставляет планы, только если таблица пуста, и возвращает
	// число вставленных строк.
	SeedPlans(ctx context.Context, plans []models.Plan) (int, error)
	// ListActivePlans возвращает активные планы в порядке id.
	ListActivePlans(ctx context.Context) ([]*models.Plan, error)
	// GetPlan возвращает активный план по id или ErrNotFound.
	GetPlan(ctx context.Context, id int) (*models.Plan, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get читает значение в result и сообщает, найден ли ключ.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение на expiration.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет ключи.
	Invalidate(ctx context.Context, keys ...string) error
}

// Service каталог планов. Cache может быть nil.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Seed засевает планы, если хранилище пусто.
func (s *Service) Seed(ctx context.Context, plans []models.Plan) error {
	const op = "plan.Seed"
	for _, p := range plans {
		if !p.BillingCycle.Valid() {
			return fmt.Errorf("%s: plan %q: unknown billing cycle %q: %w", op, p.Name, p.BillingCycle, models.ErrValidation)
		}
		if p.Price.IsNegative() {
			return fmt.Errorf("%s: plan %q: negative price: %w", op, p.Name, models.ErrValidation)
		}
	}

	n, err := s.repo.SeedPlans(ctx, plans)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		s.log.Info("plan catalog seeded", slog.Int("count", n))
		// В Redis мог остаться пустой список от прошлой базы.
		s.dropCache(ctx, activePlansKey)
	}
	return nil
}

// List возвращает активные планы в порядке id.
func (s *Service) List(ctx context.Context) ([]*models.Plan, error) {
	const op = "plan.List"

	var plans []*models.Plan
	if s.fromCache(ctx, activePlansKey, &plans) {
		return plans, nil
	}
	plans, err := s.repo.ListActivePlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.toCache(ctx, activePlansKey, plans)
	return plans, nil
}

// Get возвращает активный план по id или ErrNotFound.
func (s *Service) Get(ctx context.Context, id int) (*models.Plan, error) {
	const op = "plan.Get"

	key := "plan:" + strconv.Itoa(id)
	var p *models.Plan
	if s.fromCache(ctx, key, &p) && p != nil {
		return p, nil
	}
	p, err := s.repo.GetPlan(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.toCache(ctx, key, p)
	return p, nil
}

func (s *Service) fromCache(ctx context.Context, key string, result any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
		return false
	}
	return found
}

func (s *Service) dropCache(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.log.Warn("failed to invalidate cache", slog.Any("keys", keys), sl.Err(err))
	}
}

func (s *Service) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, cacheTTL); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
	}
}
