package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
)

type memoryCounters struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newMemoryCounters() *memoryCounters {
	return &memoryCounters{counts: make(map[string]int64)}
}

func (m *memoryCounters) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.counts[key]++
	return m.counts[key], nil
}

func newLimitedHandler(store CounterStore, requests int) http.Handler {
	limiter := NewRateLimiter(store, requests, time.Minute, nopLogger{})
	limiter.now = func() time.Time { return time.Date(2025, 10, 1, 8, 0, 20, 0, time.UTC) }

	return limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
}

func postAs(h http.Handler, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
	req = req.WithContext(WithIdentity(req.Context(), domain.Identity{UserID: userID, Role: domain.RoleStudent}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	h := newLimitedHandler(newMemoryCounters(), 2)

	assert.Equal(t, http.StatusCreated, postAs(h, 42).Code)

	second := postAs(h, 42)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	third := postAs(h, 42)
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Equal(t, "40", third.Header().Get("Retry-After"))
	assert.Equal(t, "2", third.Header().Get("X-RateLimit-Limit"))

	// у другого пользователя свой счетчик
	assert.Equal(t, http.StatusCreated, postAs(h, 43).Code)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	store := newMemoryCounters()
	store.err = errors.New("connection refused")
	h := newLimitedHandler(store, 1)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusCreated, postAs(h, 42).Code)
	}
}
