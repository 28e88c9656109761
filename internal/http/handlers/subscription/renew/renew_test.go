package renew

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-billing/internal/models"
	"github.com/magabrotheeeer/subscription-billing/internal/services/subscription"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Renew(ctx context.Context, id int) (*subscription.Renewal, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*subscription.Renewal), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRenewHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	newEnd := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "renewed",
			id:   "7",
			setupMock: func(m *MockService) {
				m.On("Renew", mock.Anything, 7).Return(&subscription.Renewal{
					Payment:    &models.Payment{TransactionID: "txn_r"},
					NewEndDate: newEnd,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"success":true,"transaction_id":"txn_r","new_end_date":"2024-01-31T00:00:00Z",` +
				`"message":"Subscription renewed successfully"}`,
		},
		{
			name: "not renewable",
			id:   "7",
			setupMock: func(m *MockService) {
				m.On("Renew", mock.Anything, 7).Return(nil, fmt.Errorf("renew: %w", models.ErrInvalidState))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"Subscription cannot be renewed"}`,
		},
		{
			name: "not found",
			id:   "8",
			setupMock: func(m *MockService) {
				m.On("Renew", mock.Anything, 8).Return(nil, models.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"Subscription not found"}`,
		},
		{
			name: "service error",
			id:   "9",
			setupMock: func(m *MockService) {
				m.On("Renew", mock.Anything, 9).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not renew subscription"}`,
		},
		{
			name:           "invalid id",
			id:             "x",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid subscription id"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/subscriptions/"+tt.id+"/renew", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			New(logger, mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
