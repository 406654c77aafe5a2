package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/iudanet/deltamirror/pkg/api"
)

// RateLimiter ограничивает частоту запросов на ключ (обычно IP зеркала)
// по схеме token bucket с полным пополнением раз в window
type RateLimiter struct {
	buckets  map[string]*bucket
	logger   *slog.Logger
	cleanupC chan struct{}
	rate     int
	window   time.Duration
	mu       sync.Mutex
	stopOnce sync.Once
}

type bucket struct {
	lastRefill time.Time
	tokens     int
}

// NewRateLimiter создает limiter: rate запросов за window
func NewRateLimiter(rate int, window time.Duration, logger *slog.Logger) *RateLimiter {
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		window:   window,
		logger:   logger,
		cleanupC: make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// cleanup периодически удаляет неактивные buckets
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupOldBuckets(time.Now())
		case <-rl.cleanupC:
			return
		}
	}
}

func (rl *RateLimiter) cleanupOldBuckets(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, b := range rl.buckets {
		if now.Sub(b.lastRefill) > rl.window*2 {
			delete(rl.buckets, key)
		}
	}
}

// Stop останавливает cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.cleanupC) })
}

// Allow проверяет, разрешен ли запрос для ключа
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.rate, lastRefill: now}
		rl.buckets[key] = b
	}

	if now.Sub(b.lastRefill) >= rl.window {
		b.tokens = rl.rate
		b.lastRefill = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

// PathRateLimit лимит для путей с общим префиксом
type PathRateLimit struct {
	Prefix string
	Rate   int
	Window time.Duration
}

// RateLimits набор limiter'ов: по префиксу пути и по умолчанию
type RateLimits struct {
	fallback *RateLimiter
	logger   *slog.Logger
	prefixes []prefixLimiter
}

type prefixLimiter struct {
	limiter *RateLimiter
	prefix  string
}

// NewRateLimits создает limiter'ы. Префиксы проверяются в порядке объявления.
// defaultRate <= 0 отключает лимит для остальных путей.
func NewRateLimits(limits []PathRateLimit, defaultRate int, defaultWindow time.Duration, logger *slog.Logger) *RateLimits {
	rl := &RateLimits{logger: logger}
	for _, l := range limits {
		rl.prefixes = append(rl.prefixes, prefixLimiter{
			prefix:  l.Prefix,
			limiter: NewRateLimiter(l.Rate, l.Window, logger),
		})
	}
	if defaultRate > 0 {
		rl.fallback = NewRateLimiter(defaultRate, defaultWindow, logger)
	}
	return rl
}

// Stop останавливает все limiter'ы
func (rl *RateLimits) Stop() {
	for _, p := range rl.prefixes {
		p.limiter.Stop()
	}
	if rl.fallback != nil {
		rl.fallback.Stop()
	}
}

func (rl *RateLimits) limiterFor(path string) *RateLimiter {
	for _, p := range rl.prefixes {
		if strings.HasPrefix(path, p.prefix) {
			return p.limiter
		}
	}
	return rl.fallback
}

// Middleware возвращает 429, когда лимит для клиента исчерпан
func (rl *RateLimits) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limiter := rl.limiterFor(r.URL.Path)
		if limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := getClientIP(r)
		if !limiter.Allow(key) {
			rl.logger.Warn("Rate limit exceeded",
				"ip", key,
				"method", r.Method,
				"path", r.URL.Path,
			)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(api.ErrorResponse{
				Error:     api.ErrCodeRateLimited,
				Message:   "rate limit exceeded, please try again later",
				RequestID: RequestIDFromContext(r.Context()),
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getClientIP извлекает IP адрес клиента из запроса
// Проверяет заголовки X-Forwarded-For и X-Real-IP для прокси
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	return r.RemoteAddr
}
