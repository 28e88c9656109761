package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/magabrotheeeer/subscription-billing/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return &Storage{DB: db}, mock
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"}
}

var subscriptionCols = []string{"id", "user_id", "plan_id", "status", "start_date", "end_date",
	"next_billing_date", "auto_renew", "created_at"}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: sql.ErrNoRows, want: models.ErrNotFound},
		{name: "unique violation", err: uniqueViolation(), want: models.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translateError(tt.err), tt.want)
		})
	}

	other := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}
	assert.Same(t, error(other), translateError(other))
}

func TestStorage_CreateUser(t *testing.T) {
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (email, name)`)).
			WithArgs("a@x.com", "A").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "created_at"}).
				AddRow(1, "a@x.com", "A", created))

		u, err := s.CreateUser(context.Background(), "a@x.com", "A")
		require.NoError(t, err)
		assert.Equal(t, &models.User{ID: 1, Email: "a@x.com", Name: "A", CreatedAt: created}, u)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (email, name)`)).
			WithArgs("a@x.com", "A").
			WillReturnError(uniqueViolation())

		u, err := s.CreateUser(context.Background(), "a@x.com", "A")
		require.ErrorIs(t, err, models.ErrConflict)
		assert.Nil(t, u)
	})

	t.Run("canceled context", func(t *testing.T) {
		s, mock := newMockStorage(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := s.CreateUser(ctx, "a@x.com", "A")
		require.ErrorIs(t, err, context.Canceled)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStorage_FindUserByEmail_NotFound(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users`)).
		WithArgs("missing@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "created_at"}))

	u, err := s.FindUserByEmail(context.Background(), "missing@x.com")
	require.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, u)
}

func TestStorage_SeedPlans(t *testing.T) {
	plans := []models.Plan{
		{Name: "Basic", Price: decimal.RequireFromString("9.99"), BillingCycle: models.BillingCycleMonthly,
			Features: []string{"1 user"}, IsActive: true},
		{Name: "Basic", Price: decimal.RequireFromString("99.99"), BillingCycle: models.BillingCycleYearly,
			Features: []string{"1 user", "Save 17%"}, IsActive: true},
	}

	t.Run("empty table is seeded", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`LOCK TABLE plans`)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM plans`)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO plans`)).
			WithArgs("Basic", "9.99", "monthly", `["1 user"]`, true).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO plans`)).
			WithArgs("Basic", "99.99", "yearly", `["1 user","Save 17%"]`, true).
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		n, err := s.SeedPlans(context.Background(), plans)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("existing plans are kept", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`LOCK TABLE plans`)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM plans`)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))
		mock.ExpectCommit()

		n, err := s.SeedPlans(context.Background(), plans)
		require.NoError(t, err)
		assert.Zero(t, n)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStorage_ListActivePlans(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM plans`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "billing_cycle", "features", "is_active"}).
			AddRow(1, "Basic", "9.99", "monthly", `["1 user","Email support"]`, true).
			AddRow(2, "Pro", "19.99", "monthly", nil, true))

	plans, err := s.ListActivePlans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "Basic", plans[0].Name)
	assert.True(t, decimal.RequireFromString("9.99").Equal(plans[0].Price))
	assert.Equal(t, models.BillingCycleMonthly, plans[0].BillingCycle)
	assert.Equal(t, []string{"1 user", "Email support"}, plans[0].Features)
	assert.Equal(t, []string{}, plans[1].Features)
}

func TestStorage_GetPlan_NotFound(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE id = $1 AND is_active = true`)).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "billing_cycle", "features", "is_active"}))

	p, err := s.GetPlan(context.Background(), 42)
	require.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, p)
}

func TestStorage_CreateSubscription(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)
	sub := models.Subscription{UserID: 1, PlanID: 2, Status: models.StatusPending,
		StartDate: start, EndDate: end, NextBillingDate: &end, AutoRenew: true}

	t.Run("success", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO subscriptions`)).
			WithArgs(1, 2, "pending", start, end, end, true).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, start))

		got, err := s.CreateSubscription(context.Background(), sub)
		require.NoError(t, err)
		assert.Equal(t, 7, got.ID)
		assert.Equal(t, models.StatusPending, got.Status)
	})

	t.Run("open subscription exists", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO subscriptions`)).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation,
				ConstraintName: "idx_subscriptions_one_open_per_user"})

		_, err := s.CreateSubscription(context.Background(), sub)
		require.ErrorIs(t, err, models.ErrConflict)
	})
}

func TestStorage_FindOpenSubscription(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta(`s.status IN ('active', 'trialing', 'pending')`)).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows(subscriptionCols).
				AddRow(3, 1, 1, "pending", start, start.AddDate(0, 0, 30), nil, true, start))

		sub, err := s.FindOpenSubscription(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 3, sub.ID)
		assert.Nil(t, sub.NextBillingDate)
	})

	t.Run("none", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta(`s.status IN ('active', 'trialing', 'pending')`)).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows(subscriptionCols))

		_, err := s.FindOpenSubscription(context.Background(), 1)
		require.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestOpenStatusList(t *testing.T) {
	assert.Equal(t, "'active', 'trialing', 'pending'", openStatusList())
}

func TestStorage_ApplyPaymentOutcome(t *testing.T) {
	paid := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	payment := models.Payment{Amount: decimal.RequireFromString("9.99"),
		Status: models.PaymentCompleted, TransactionID: "TXN20240101123456"}

	t.Run("pending becomes active", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`WHERE id = $2 AND status = 'pending'`)).
			WithArgs("active", 5).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO payments`)).
			WithArgs(5, "9.99", "completed", "TXN20240101123456").
			WillReturnRows(sqlmock.NewRows([]string{"id", "payment_date"}).AddRow(11, paid))
		mock.ExpectCommit()

		got, err := s.ApplyPaymentOutcome(context.Background(), 5, models.StatusActive, payment)
		require.NoError(t, err)
		assert.Equal(t, 11, got.ID)
		assert.Equal(t, 5, got.SubscriptionID)
		assert.Equal(t, paid, got.PaymentDate)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not pending anymore", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`WHERE id = $2 AND status = 'pending'`)).
			WithArgs("active", 5).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		got, err := s.ApplyPaymentOutcome(context.Background(), 5, models.StatusActive, payment)
		require.ErrorIs(t, err, models.ErrInvalidState)
		assert.Nil(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("transaction id collision", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`WHERE id = $2 AND status = 'pending'`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO payments`)).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation,
				ConstraintName: "payments_transaction_id_key"})
		mock.ExpectRollback()

		_, err := s.ApplyPaymentOutcome(context.Background(), 5, models.StatusActive, payment)
		require.ErrorIs(t, err, models.ErrConflict)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStorage_RenewSubscription(t *testing.T) {
	oldEnd := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newEnd := oldEnd.AddDate(0, 0, 30)
	payment := models.Payment{Amount: decimal.RequireFromString("9.99"),
		Status: models.PaymentCompleted, TransactionID: "TXN20240101654321"}

	t.Run("extends period", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`AND status IN ('active', 'expiring_soon')`)).
			WithArgs(newEnd, 5, oldEnd).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO payments`)).
			WithArgs(5, "9.99", "completed", "TXN20240101654321").
			WillReturnRows(sqlmock.NewRows([]string{"id", "payment_date"}).AddRow(12, oldEnd))
		mock.ExpectCommit()

		got, err := s.RenewSubscription(context.Background(), 5, oldEnd, newEnd, payment)
		require.NoError(t, err)
		assert.Equal(t, 12, got.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not renewable", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`AND status IN ('active', 'expiring_soon')`)).
			WithArgs(newEnd, 5, oldEnd).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := s.RenewSubscription(context.Background(), 5, oldEnd, newEnd, payment)
		require.ErrorIs(t, err, models.ErrInvalidState)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStorage_CancelSubscription(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("cancelled", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SET status = 'cancelled', auto_renew = false`)).
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows(subscriptionCols).
				AddRow(5, 1, 1, "cancelled", start, start.AddDate(0, 0, 30), start.AddDate(0, 0, 30), false, start))

		sub, err := s.CancelSubscription(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, sub.Status)
		assert.False(t, sub.AutoRenew)
		require.NotNil(t, sub.NextBillingDate)
	})

	t.Run("missing", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SET status = 'cancelled', auto_renew = false`)).
			WithArgs(404).
			WillReturnRows(sqlmock.NewRows(subscriptionCols))

		_, err := s.CancelSubscription(context.Background(), 404)
		require.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestStorage_ListSubscriptionsByUser(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)

	s, mock := newMockStorage(t)
	mock.ExpectQuery(regexp.QuoteMeta(`LEFT JOIN LATERAL`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(append(append([]string{}, subscriptionCols...),
			"name", "price", "billing_cycle", "features", "status", "transaction_id", "payment_date")).
			AddRow(2, 1, 1, "active", start, end, end, true, start.Add(time.Hour),
				"Basic", "9.99", "monthly", `["1 user"]`, "completed", "TXN20240101111111", start).
			AddRow(1, 1, 1, "pending", start, end, end, true, start,
				"Basic", "9.99", "monthly", `["1 user"]`, nil, nil, nil))

	got, err := s.ListSubscriptionsByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].LastPayment)
	assert.Equal(t, "TXN20240101111111", got[0].LastPayment.TransactionID)
	assert.Equal(t, "Basic", got[0].PlanName)
	assert.Nil(t, got[1].LastPayment)
}

func TestStorage_LatestPayment_None(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM payments`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "subscription_id", "amount", "status",
			"payment_date", "transaction_id"}))

	p, err := s.LatestPayment(context.Background(), 5)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestStorage_FindRenewalsDue(t *testing.T) {
	from := time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	s, mock := newMockStorage(t)
	mock.ExpectQuery(regexp.QuoteMeta(`s.next_billing_date >= $1`)).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "email", "name", "plan", "price", "next"}).
			AddRow(5, 1, "a@x.com", "A", "Basic", "9.99", from.Add(time.Hour)))

	got, err := s.FindRenewalsDue(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a@x.com", got[0].Email)
	assert.True(t, decimal.RequireFromString("9.99").Equal(got[0].Amount))
}

func TestStorage_FindRenewalsDue_SkipsReminded(t *testing.T) {
	from := time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	s, mock := newMockStorage(t)
	mock.ExpectQuery(regexp.QuoteMeta(`s.reminded_for IS NULL OR s.reminded_for <> s.next_billing_date`)).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "email", "name", "plan", "price", "next"}))

	got, err := s.FindRenewalsDue(context.Background(), from, to)
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_MarkReminded(t *testing.T) {
	billing := time.Date(2024, 1, 30, 12, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectExec(regexp.QuoteMeta(`SET reminded_for = $1`)).
			WithArgs(billing, 5).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.MarkReminded(context.Background(), 5, billing))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectExec(regexp.QuoteMeta(`SET reminded_for = $1`)).
			WithArgs(billing, 5).
			WillReturnError(sql.ErrConnDone)

		err := s.MarkReminded(context.Background(), 5, billing)
		require.ErrorIs(t, err, sql.ErrConnDone)
	})
}
