// Package user реализует регистрацию и поиск пользователей.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/subscription-billing/internal/models"
)

// Repository определяет методы хранилища пользователей.
type Repository interface {
	// CreateUser сохраняет пользователя. ErrConflict, если email занят.
	CreateUser(ctx context.Context, email, name string) (*models.User, error)

	// FindUserByEmail возвращает пользователя по email или ErrNotFound.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service управляет пользователями.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Register создаёт пользователя. Занятый email даёт ErrConflict.
func (s *Service) Register(ctx context.Context, email, name string) (*models.User, error) {
	const op = "user.Register"

	email, name = strings.TrimSpace(email), strings.TrimSpace(name)
	if email == "" || name == "" {
		return nil, fmt.Errorf("%s: email and name are required: %w", op, models.ErrValidation)
	}
	u, err := s.repo.CreateUser(ctx, email, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user registered", slog.Int("user_id", u.ID))
	return u, nil
}

// GetByEmail возвращает пользователя по email или ErrNotFound.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "user.GetByEmail"

	u, err := s.repo.FindUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetOrCreate возвращает пользователя с данным email, создавая его при
// отсутствии. Если параллельный запрос успел создать пользователя первым,
// возвращается его запись.
func (s *Service) GetOrCreate(ctx context.Context, email, name string) (*models.User, error) {
	const op = "user.GetOrCreate"

	u, err := s.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u, err = s.Register(ctx, email, name)
	if errors.Is(err, models.ErrConflict) {
		u, err = s.GetByEmail(ctx, email)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
