package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/subscription-billing/internal/models"
)

// insertPayment добавляет строку в журнал платежей в рамках транзакции.
// Совпадение transaction_id даёт ErrConflict.
func insertPayment(ctx context.Context, tx *sql.Tx, p models.Payment) (*models.Payment, error) {
	query := `INSERT INTO payments (subscription_id, amount, status, transaction_id)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, payment_date`
	if err := tx.QueryRowContext(ctx, query,
		p.SubscriptionID, p.Amount, string(p.Status), p.TransactionID).
		Scan(&p.ID, &p.PaymentDate); err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

// LatestPayment возвращает последнюю попытку оплаты подписки или nil, если
// попыток не было.
func (s *Storage) LatestPayment(ctx context.Context, subscriptionID int) (*models.Payment, error) {
	const op = "storage.LatestPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, subscription_id, amount, status, payment_date, transaction_id
			  FROM payments
			  WHERE subscription_id = $1
			  ORDER BY payment_date DESC, id DESC
			  LIMIT 1`
	p, err := scanPayment(s.DB.QueryRowContext(ctx, query, subscriptionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListPayments возвращает все попытки оплаты подписки, новые первыми.
func (s *Storage) ListPayments(ctx context.Context, subscriptionID int) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, subscription_id, amount, status, payment_date, transaction_id
			  FROM payments
			  WHERE subscription_id = $1
			  ORDER BY payment_date DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
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

func scanPayment(row scanner) (*models.Payment, error) {
	var (
		p      models.Payment
		status string
	)
	if err := row.Scan(&p.ID, &p.SubscriptionID, &p.Amount, &status,
		&p.PaymentDate, &p.TransactionID); err != nil {
		return nil, err
	}
	p.Status = models.PaymentStatus(status)
	return &p, nil
}
