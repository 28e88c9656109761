package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/subscription-billing/internal/models"
)

// SeedPlans вставляет планы, только если таблица пуста, и возвращает число
// вставленных строк. Конкурентные вызовы сериализуются блокировкой таблицы.
func (s *Storage) SeedPlans(ctx context.Context, plans []models.Plan) (int, error) {
	const op = "storage.SeedPlans"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rollback(tx)

	if _, err = tx.ExecContext(ctx, `LOCK TABLE plans IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	var count int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM plans`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if count > 0 {
		return 0, tx.Commit()
	}

	query := `INSERT INTO plans (name, price, billing_cycle, features, is_active)
			  VALUES ($1, $2, $3, $4::jsonb, $5)`
	for _, p := range plans {
		features, err := json.Marshal(p.Features)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		if _, err = tx.ExecContext(ctx, query,
			p.Name, p.Price, string(p.BillingCycle), string(features), p.IsActive); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return len(plans), nil
}

// ListActivePlans возвращает активные планы в порядке id.
func (s *Storage) ListActivePlans(ctx context.Context) ([]*models.Plan, error) {
	const op = "storage.ListActivePlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, price, billing_cycle, features, is_active
			  FROM plans
			  WHERE is_active = true
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Plan, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetPlan возвращает активный план по id или ErrNotFound.
func (s *Storage) GetPlan(ctx context.Context, id int) (*models.Plan, error) {
	const op = "storage.GetPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, price, billing_cycle, features, is_active
			  FROM plans
			  WHERE id = $1 AND is_active = true`
	p, err := scanPlan(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlan(row scanner) (*models.Plan, error) {
	var (
		p        models.Plan
		cycle    string
		features []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &cycle, &features, &p.IsActive); err != nil {
		return nil, err
	}
	p.BillingCycle = models.BillingCycle(cycle)
	var err error
	if p.Features, err = decodeFeatures(features); err != nil {
		return nil, err
	}
	return &p, nil
}

func decodeFeatures(raw []byte) ([]string, error) {
	features := []string{}
	if len(raw) == 0 {
		return features, nil
	}
	if err := json.Unmarshal(raw, &features); err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}
	return features, nil
}
