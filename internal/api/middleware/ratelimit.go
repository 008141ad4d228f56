package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-HallBookingService/internal/api/handlers"
)

const msgRateLimited = "слишком много запросов, попробуйте позже"

// RedisCounterStore счетчики фиксированного окна в Redis
type RedisCounterStore struct {
	client *redis.Client
	prefix string
}

// NewRedisCounterStore создает хранилище счетчиков
func NewRedisCounterStore(client *redis.Client, prefix string) *RedisCounterStore {
	return &RedisCounterStore{client: client, prefix: prefix}
}

// Incr увеличивает счетчик, TTL выставляется только при создании ключа
func (s *RedisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	fullKey := s.prefix + ":" + key

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, fullKey)
		pipe.ExpireNX(ctx, fullKey, window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("ratelimit: incr %s: %w", fullKey, err)
	}

	return incr.Val(), nil
}

// RateLimiter ограничение числа запросов пользователя за окно
// Ставится после Auth: ключ строится по ID пользователя
type RateLimiter struct {
	store    CounterStore
	requests int
	window   time.Duration
	now      func() time.Time
	logger   Logger
}

// NewRateLimiter создает ограничитель
func NewRateLimiter(store CounterStore, requests int, window time.Duration, logger Logger) *RateLimiter {
	return &RateLimiter{
		store:    store,
		requests: requests,
		window:   window,
		now:      time.Now,
		logger:   logger,
	}
}

// Middleware возвращает обработчик для mux
// Недоступность Redis не блокирует запросы
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := "anon"
		if identity, ok := GetIdentity(r.Context()); ok {
			subject = strconv.FormatInt(identity.UserID, 10)
		}

		windowStart := l.now().Truncate(l.window).Unix()
		key := fmt.Sprintf("%s:%s:user:%s:%d", r.Method, r.URL.Path, subject, windowStart)

		count, err := l.store.Incr(r.Context(), key, l.window)
		if err != nil {
			l.logger.Warn("RateLimiter: counter unavailable, letting request through: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		remaining := l.requests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.requests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if count > int64(l.requests) {
			retry := time.Unix(windowStart, 0).Add(l.window).Sub(l.now())
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			l.logger.Warn("RateLimiter: user=%s exceeded %d requests per %s", subject, l.requests, l.window)
			handlers.RespondTooManyRequests(w, msgRateLimited)
			return
		}

		next.ServeHTTP(w, r)
	})
}
