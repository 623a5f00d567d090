package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCounterStoreIncrements(t *testing.T) {
	store := NewMemoryCounterStore()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		count, err := store.Incr(ctx, "client-a", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}

	// Independent keys get independent counters
	count, err := store.Incr(ctx, "client-b", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemoryCounterStoreExpires(t *testing.T) {
	store := NewMemoryCounterStore()
	ctx := context.Background()

	_, err := store.Incr(ctx, "client-a", 10*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	count, err := store.Incr(ctx, "client-a", 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "counter should reset after the window expires")
}

func TestIsAllowed(t *testing.T) {
	rl := NewRateLimiter(NewMemoryCounterStore(), RateLimitConfig{
		Window:    time.Minute,
		Limit:     3,
		KeyPrefix: "rate_limit:test",
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, _, err := rl.IsAllowed(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, remaining, resetTime, err := rl.IsAllowed(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
	assert.False(t, resetTime.IsZero())

	// A different client is unaffected
	allowed, _, _, err = rl.IsAllowed(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func setupRateLimitedRouter(store CounterStore, limit int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	rl := NewRateLimiter(store, RateLimitConfig{
		Window:    time.Minute,
		Limit:     limit,
		KeyPrefix: "rate_limit:test",
	})
	router.POST("/analyze", rl.RateLimitMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestRateLimitMiddleware(t *testing.T) {
	router := setupRateLimitedRouter(NewMemoryCounterStore(), 2)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/analyze", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/analyze", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}

type failingStore struct{}

func (failingStore) Incr(context.Context, string, time.Duration) (int, error) {
	return 0, errors.New("store unavailable")
}

func TestRateLimitMiddlewareFailsOpen(t *testing.T) {
	router := setupRateLimitedRouter(failingStore{}, 1)

	// Store errors must not reject traffic
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/analyze", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
	}
}
