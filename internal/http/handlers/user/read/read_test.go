package read

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-billing/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		email          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "user found",
			email: "a@x.com",
			setupMock: func(m *MockService) {
				m.On("GetByEmail", mock.Anything, "a@x.com").Return(&models.User{ID: 1, Email: "a@x.com", Name: "A"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"email":"a@x.com"`,
		},
		{
			name:  "user not found",
			email: "b@x.com",
			setupMock: func(m *MockService) {
				m.On("GetByEmail", mock.Anything, "b@x.com").Return(nil, models.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"User not found"}`,
		},
		{
			name:  "service error",
			email: "c@x.com",
			setupMock: func(m *MockService) {
				m.On("GetByEmail", mock.Anything, "c@x.com").Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not find user"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodGet, "/api/users/"+tt.email, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("email", tt.email)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			New(logger, mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}

func TestReadHandler_EncodedEmail(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mockService := new(MockService)
	mockService.On("GetByEmail", mock.Anything, "a@x.com").Return(&models.User{ID: 1, Email: "a@x.com", Name: "A"}, nil)

	r := chi.NewRouter()
	r.Method(http.MethodGet, "/api/users/{email}", New(logger, mockService))

	req := httptest.NewRequest(http.MethodGet, "/api/users/a%40x.com", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"a@x.com"`)
	mockService.AssertExpectations(t)
}

func TestReadHandler_InvalidEscape(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockService := new(MockService)

	req := httptest.NewRequest(http.MethodGet, "/api/users/x", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("email", "a%zz")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	w := httptest.NewRecorder()
	New(logger, mockService).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"invalid email"`)
	mockService.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}
