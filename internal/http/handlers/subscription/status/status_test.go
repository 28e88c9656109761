package status

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-billing/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Status(ctx context.Context, id int) (*models.SubscriptionDetails, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*models.SubscriptionDetails), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestStatusHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   []string
	}{
		{
			name: "subscription with payments",
			id:   "7",
			setupMock: func(m *MockService) {
				m.On("Status", mock.Anything, 7).Return(&models.SubscriptionDetails{
					Subscription: models.Subscription{ID: 7, Status: models.StatusActive, AutoRenew: true},
					User:         models.User{ID: 3, Email: "a@x.com", Name: "A"},
					Plan: models.Plan{ID: 1, Name: "Basic", Price: decimal.RequireFromString("9.99"),
						BillingCycle: models.BillingCycleMonthly},
					Payments: []*models.Payment{{ID: 1, Amount: decimal.RequireFromString("9.99"),
						Status: models.PaymentCompleted, TransactionID: "txn_1"}},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: []string{
				`"id":7`,
				`"user":{"id":3,"email":"a@x.com","name":"A"`,
				`"status":"active"`,
				`"transaction_id":"txn_1"`,
			},
		},
		{
			name: "no payments yet",
			id:   "8",
			setupMock: func(m *MockService) {
				m.On("Status", mock.Anything, 8).Return(&models.SubscriptionDetails{
					Subscription: models.Subscription{ID: 8, Status: models.StatusPending},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []string{`"payments":[]`},
		},
		{
			name: "not found",
			id:   "9",
			setupMock: func(m *MockService) {
				m.On("Status", mock.Anything, 9).Return(nil, models.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   []string{`"error":"Subscription not found"`},
		},
		{
			name: "service error",
			id:   "10",
			setupMock: func(m *MockService) {
				m.On("Status", mock.Anything, 10).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   []string{`"error":"could not read subscription"`},
		},
		{
			name:           "invalid id",
			id:             "x",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   []string{`"error":"invalid subscription id"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodGet, "/api/subscriptions/status/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			New(logger, mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			for _, want := range tt.expectedBody {
				assert.Contains(t, w.Body.String(), want)
			}
			mockService.AssertExpectations(t)
		})
	}
}
