package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/subscription-billing/internal/models"
)

// CreateUser сохраняет нового пользователя. Повторный email даёт ErrConflict.
func (s *Storage) CreateUser(ctx context.Context, email, name string) (*models.User, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (email, name)
			  VALUES ($1, $2)
			  RETURNING id, email, name, created_at`
	var u models.User
	if err := s.DB.QueryRowContext(ctx, query, email, name).
		Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return &u, nil
}

// FindUserByEmail возвращает пользователя по email или ErrNotFound.
func (s *Storage) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.FindUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, name, created_at
			  FROM users
			  WHERE email = $1`
	var u models.User
	if err := s.DB.QueryRowContext(ctx, query, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return &u, nil
}
