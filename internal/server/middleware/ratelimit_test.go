package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("requests within limit are allowed", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute, logger)
		defer limiter.Stop()

		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow("10.0.0.1"), "request %d should be allowed", i+1)
		}
		assert.False(t, limiter.Allow("10.0.0.1"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute, logger)
		defer limiter.Stop()

		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.False(t, limiter.Allow("10.0.0.1"))
		assert.True(t, limiter.Allow("10.0.0.2"))
	})

	t.Run("tokens refill after window", func(t *testing.T) {
		limiter := NewRateLimiter(1, 20*time.Millisecond, logger)
		defer limiter.Stop()

		assert.True(t, limiter.Allow("10.0.0.3"))
		assert.False(t, limiter.Allow("10.0.0.3"))

		time.Sleep(30 * time.Millisecond)
		assert.True(t, limiter.Allow("10.0.0.3"))
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute, logger)
		limiter.Stop()
		assert.NotPanics(t, limiter.Stop)
	})
}

func TestRateLimiter_CleanupOldBuckets(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	limiter := NewRateLimiter(1, time.Minute, logger)
	defer limiter.Stop()

	limiter.Allow("stale")
	limiter.cleanupOldBuckets(time.Now().Add(3 * time.Minute))

	limiter.mu.Lock()
	_, exists := limiter.buckets["stale"]
	limiter.mu.Unlock()
	assert.False(t, exists)
}

func TestRateLimits_Middleware(t *testing.T) {
	var logBuf strings.Builder
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	limits := NewRateLimits([]PathRateLimit{
		{Prefix: "/api/v1/files/", Rate: 1, Window: time.Minute},
	}, 3, time.Minute, logger)
	defer limits.Stop()

	handler := limits.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(path string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.1.1.1:5000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	// Полные файлы: 1 запрос в минуту
	assert.Equal(t, http.StatusOK, do("/api/v1/files/a.txt"))
	assert.Equal(t, http.StatusTooManyRequests, do("/api/v1/files/b.txt"))

	// Остальные пути: лимит по умолчанию
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do("/api/v1/ledger"))
	}
	assert.Equal(t, http.StatusTooManyRequests, do("/api/v1/ledger"))

	assert.Contains(t, logBuf.String(), "Rate limit exceeded")
}

func TestRateLimits_NoDefaultLimit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	limits := NewRateLimits(nil, 0, time.Minute, logger)
	defer limits.Stop()

	handler := limits.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for i := 0; i < 100; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ledger", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "X-Forwarded-For single",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.1"},
			remoteAddr: "10.0.0.1:1",
			want:       "203.0.113.1",
		},
		{
			name:       "X-Forwarded-For list",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.1, 198.51.100.1"},
			remoteAddr: "10.0.0.1:1",
			want:       "203.0.113.1",
		},
		{
			name:       "X-Real-IP",
			headers:    map[string]string{"X-Real-IP": "203.0.113.5"},
			remoteAddr: "10.0.0.1:1",
			want:       "203.0.113.5",
		},
		{
			name:       "RemoteAddr fallback",
			remoteAddr: "10.0.0.9:4242",
			want:       "10.0.0.9:4242",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}
