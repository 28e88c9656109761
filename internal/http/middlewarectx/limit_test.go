package middlewarectx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("success")); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("allows requests within rate limit", func(t *testing.T) {
		handler := RateLimitMiddleware(newNoopLogger(), 10, 10)(okHandler(t))
		req := httptest.NewRequest(http.MethodGet, "/api/plans", nil)

		for range 10 {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "success", w.Body.String())
		}
	})

	t.Run("blocks requests exceeding rate limit", func(t *testing.T) {
		handler := RateLimitMiddleware(newNoopLogger(), 1, 1)(okHandler(t))
		req := httptest.NewRequest(http.MethodGet, "/api/plans", nil)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, `"too many requests"`+"\n", w.Body.String())
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	})

	t.Run("allows requests after rate limit reset", func(t *testing.T) {
		handler := RateLimitMiddleware(newNoopLogger(), 1, 1)(okHandler(t))
		req := httptest.NewRequest(http.MethodGet, "/api/plans", nil)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)

		time.Sleep(1 * time.Second)

		w = httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimitMiddleware_ConcurrentRequests(t *testing.T) {
	handler := RateLimitMiddleware(newNoopLogger(), 5, 5)(okHandler(t))
	req := httptest.NewRequest(http.MethodPost, "/api/payment/simulate", nil)

	results := make(chan int, 10)
	for range 10 {
		go func() {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			results <- w.Code
		}()
	}

	successCount, limitedCount := 0, 0
	for range 10 {
		select {
		case code := <-results:
			switch code {
			case http.StatusOK:
				successCount++
			case http.StatusTooManyRequests:
				limitedCount++
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for concurrent requests")
		}
	}

	assert.Equal(t, 5, successCount)
	assert.Equal(t, 5, limitedCount)
}

func TestRateLimitMiddleware_GlobalAcrossEndpoints(t *testing.T) {
	var called int
	handler := RateLimitMiddleware(newNoopLogger(), 2, 2)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called++
		w.WriteHeader(http.StatusOK)
	}))

	endpoints := []string{"/api/plans", "/api/subscriptions/1", "/api/users/a@example.com"}
	limited := 0
	for i := range 6 {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, endpoints[i%len(endpoints)], nil))
		if w.Code == http.StatusTooManyRequests {
			limited++
		}
	}

	assert.Equal(t, 2, called)
	assert.Equal(t, 4, limited)
}
