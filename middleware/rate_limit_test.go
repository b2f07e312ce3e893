package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowExhaustsWindow(t *testing.T) {
	rl := NewRateLimiter(15*time.Minute, 5)
	now := time.Now()

	for i := 0; i < 5; i++ {
		allowed, remaining, _ := rl.Allow("1.2.3.4", now)
		require.True(t, allowed, "request %d should pass", i+1)
		assert.Equal(t, 5-(i+1), remaining)
	}

	allowed, remaining, reset := rl.Allow("1.2.3.4", now)
	assert.False(t, allowed, "sixth request in the window must be rejected")
	assert.Equal(t, 0, remaining)
	assert.Equal(t, now.Add(15*time.Minute), reset)
}

func TestAllowResetsAfterWindow(t *testing.T) {
	rl := NewRateLimiter(15*time.Minute, 5)
	now := time.Now()

	for i := 0; i < 6; i++ {
		rl.Allow("1.2.3.4", now)
	}

	allowed, remaining, _ := rl.Allow("1.2.3.4", now.Add(15*time.Minute))
	assert.True(t, allowed, "a fresh window must accept requests again")
	assert.Equal(t, 4, remaining)
}

func TestAllowKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(time.Minute, 1)
	now := time.Now()

	allowed, _, _ := rl.Allow("1.2.3.4", now)
	require.True(t, allowed)
	allowed, _, _ = rl.Allow("1.2.3.4", now)
	require.False(t, allowed)

	allowed, _, _ = rl.Allow("5.6.7.8", now)
	assert.True(t, allowed, "another client address has its own window")
}

func TestHandlerReturns429WithHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(time.Minute, 2)
	router := gin.New()
	router.GET("/ping", rl.Handler(), func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	do := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "1.2.3.4:5678"
		router.ServeHTTP(w, req)
		return w
	}

	first := do()
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, first.Header().Get("X-RateLimit-Reset"))

	second := do()
	require.Equal(t, http.StatusOK, second.Code)

	third := do()
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Equal(t, "0", third.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, third.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"success":false,"message":"Too many requests, please try again later"}`, third.Body.String())
}
