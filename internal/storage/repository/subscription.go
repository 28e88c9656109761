package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/subscription-billing/internal/models"
)

const subscriptionColumns = `s.id, s.user_id, s.plan_id, s.status, s.start_date, s.end_date,
			      s.next_billing_date, s.auto_renew, s.created_at`

// CreateSubscription вставляет подписку. Вторая открытая подписка пользователя
// нарушает частичный уникальный индекс и даёт ErrConflict.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_id, plan_id, status, start_date,
			      end_date, next_billing_date, auto_renew)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id, created_at`
	err := s.DB.QueryRowContext(ctx, query,
		sub.UserID, sub.PlanID, string(sub.Status), sub.StartDate, sub.EndDate,
		nullTime(sub.NextBillingDate), sub.AutoRenew).Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return &sub, nil
}

// FindOpenSubscription возвращает открытую (models.OpenStatuses) подписку
// пользователя или ErrNotFound.
func (s *Storage) FindOpenSubscription(ctx context.Context, userID int) (*models.Subscription, error) {
	const op = "storage.FindOpenSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions s
			  WHERE s.user_id = $1
			    AND s.status IN (` + openStatusList() + `)
			  LIMIT 1`
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return sub, nil
}

// GetSubscriptionDetails возвращает подписку с пользователем, планом и всеми
// платежами, новые первыми.
func (s *Storage) GetSubscriptionDetails(ctx context.Context, id int) (*models.SubscriptionDetails, error) {
	const op = "storage.GetSubscriptionDetails"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `,
			      u.id, u.email, u.name, u.created_at,
			      p.id, p.name, p.price, p.billing_cycle, p.features, p.is_active
			  FROM subscriptions s
			  JOIN users u ON u.id = s.user_id
			  JOIN plans p ON p.id = s.plan_id
			  WHERE s.id = $1`
	var (
		d        models.SubscriptionDetails
		status   string
		next     sql.NullTime
		cycle    string
		features []byte
	)
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.UserID, &d.PlanID, &status, &d.StartDate, &d.EndDate, &next, &d.AutoRenew, &d.CreatedAt,
		&d.User.ID, &d.User.Email, &d.User.Name, &d.User.CreatedAt,
		&d.Plan.ID, &d.Plan.Name, &d.Plan.Price, &cycle, &features, &d.Plan.IsActive,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	d.Status = models.SubscriptionStatus(status)
	d.NextBillingDate = timePtr(next)
	d.Plan.BillingCycle = models.BillingCycle(cycle)
	if d.Plan.Features, err = decodeFeatures(features); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	d.Payments, err = s.ListPayments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &d, nil
}

// ListSubscriptionsByUser возвращает подписки пользователя, новые первыми,
// вместе с планом и последней попыткой оплаты.
func (s *Storage) ListSubscriptionsByUser(ctx context.Context, userID int) ([]*models.SubscriptionSummary, error) {
	const op = "storage.ListSubscriptionsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `,
			      p.name, p.price, p.billing_cycle, p.features,
			      lp.status, lp.transaction_id, lp.payment_date
			  FROM subscriptions s
			  JOIN plans p ON p.id = s.plan_id
			  LEFT JOIN LATERAL (
			      SELECT status, transaction_id, payment_date
			      FROM payments
			      WHERE subscription_id = s.id
			      ORDER BY payment_date DESC, id DESC
			      LIMIT 1
			  ) lp ON true
			  WHERE s.user_id = $1
			  ORDER BY s.created_at DESC, s.id DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.SubscriptionSummary, 0)
	for rows.Next() {
		var (
			item      models.SubscriptionSummary
			status    string
			next      sql.NullTime
			cycle     string
			features  []byte
			payStatus sql.NullString
			payTxn    sql.NullString
			payDate   sql.NullTime
		)
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.PlanID, &status, &item.StartDate, &item.EndDate,
			&next, &item.AutoRenew, &item.CreatedAt,
			&item.PlanName, &item.Price, &cycle, &features,
			&payStatus, &payTxn, &payDate,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		item.Status = models.SubscriptionStatus(status)
		item.NextBillingDate = timePtr(next)
		item.BillingCycle = models.BillingCycle(cycle)
		if item.Features, err = decodeFeatures(features); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if payStatus.Valid {
			item.LastPayment = &models.LastPayment{
				Status:        models.PaymentStatus(payStatus.String),
				TransactionID: payTxn.String,
				PaymentDate:   payDate.Time,
			}
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ApplyPaymentOutcome в одной транзакции переводит подписку из pending в status
// и добавляет запись о платеже. Если подписка уже не pending, ничего не
// записывается и возвращается ErrInvalidState.
func (s *Storage) ApplyPaymentOutcome(ctx context.Context, subscriptionID int,
	status models.SubscriptionStatus, payment models.Payment) (*models.Payment, error) {
	const op = "storage.ApplyPaymentOutcome"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rollback(tx)

	res, err := tx.ExecContext(ctx, `UPDATE subscriptions
			  SET status = $1
			  WHERE id = $2 AND status = 'pending'`, string(status), subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = requireOneRow(res); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	payment.SubscriptionID = subscriptionID
	saved, err := insertPayment(ctx, tx, payment)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return saved, nil
}

// RenewSubscription в одной транзакции продлевает подписку до newEnd и
// добавляет завершённый платёж. Подписка должна быть в active или
// expiring_soon и иметь end_date, равный oldEnd, иначе ErrInvalidState.
func (s *Storage) RenewSubscription(ctx context.Context, subscriptionID int,
	oldEnd, newEnd time.Time, payment models.Payment) (*models.Payment, error) {
	const op = "storage.RenewSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rollback(tx)

	res, err := tx.ExecContext(ctx, `UPDATE subscriptions
			  SET status = 'active', end_date = $1, next_billing_date = $1
			  WHERE id = $2
			    AND status IN ('active', 'expiring_soon')
			    AND end_date = $3`, newEnd, subscriptionID, oldEnd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = requireOneRow(res); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	payment.SubscriptionID = subscriptionID
	saved, err := insertPayment(ctx, tx, payment)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return saved, nil
}

// CancelSubscription переводит подписку в cancelled из любого статуса и
// выключает автопродление. Возвращает обновлённую подписку или ErrNotFound.
func (s *Storage) CancelSubscription(ctx context.Context, id int) (*models.Subscription, error) {
	const op = "storage.CancelSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions s
			  SET status = 'cancelled', auto_renew = false
			  WHERE s.id = $1
			  RETURNING ` + subscriptionColumns
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return sub, nil
}

// FindRenewalsDue находит активные подписки с автопродлением, у которых
// следующее списание попадает в полуинтервал [from, to) и по которым ещё не
// отправлялось напоминание для этой даты списания.
func (s *Storage) FindRenewalsDue(ctx context.Context, from, to time.Time) ([]*models.RenewalReminder, error) {
	const op = "storage.FindRenewalsDue"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, u.id, u.email, u.name, p.name, p.price, s.next_billing_date
			  FROM subscriptions s
			  JOIN users u ON u.id = s.user_id
			  JOIN plans p ON p.id = s.plan_id
			  WHERE s.status = 'active'
			    AND s.auto_renew = true
			    AND s.next_billing_date >= $1
			    AND s.next_billing_date < $2
			    AND (s.reminded_for IS NULL OR s.reminded_for <> s.next_billing_date)
			  ORDER BY s.next_billing_date`
	rows, err := s.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.RenewalReminder
	for rows.Next() {
		var r models.RenewalReminder
		if err = rows.Scan(&r.SubscriptionID, &r.UserID, &r.Email, &r.Name,
			&r.PlanName, &r.Amount, &r.NextBillingDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkReminded запоминает, что напоминание для списания billingDate отправлено.
// Если подписку уже продлили на другую дату, ничего не меняется.
func (s *Storage) MarkReminded(ctx context.Context, subscriptionID int, billingDate time.Time) error {
	const op = "storage.MarkReminded"

	_, err := s.DB.ExecContext(ctx, `UPDATE subscriptions
			  SET reminded_for = $1
			  WHERE id = $2 AND next_billing_date = $1`, billingDate, subscriptionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func scanSubscription(row scanner) (*models.Subscription, error) {
	var (
		sub    models.Subscription
		status string
		next   sql.NullTime
	)
	if err := row.Scan(&sub.ID, &sub.UserID, &sub.PlanID, &status, &sub.StartDate,
		&sub.EndDate, &next, &sub.AutoRenew, &sub.CreatedAt); err != nil {
		return nil, err
	}
	sub.Status = models.SubscriptionStatus(status)
	sub.NextBillingDate = timePtr(next)
	return &sub, nil
}

// openStatusList перечисляет открытые статусы для IN (...). Значения
// константные, поэтому подставляются в запрос напрямую.
func openStatusList() string {
	quoted := make([]string, len(models.OpenStatuses))
	for i, st := range models.OpenStatuses {
		quoted[i] = "'" + string(st) + "'"
	}
	return strings.Join(quoted, ", ")
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrInvalidState
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
