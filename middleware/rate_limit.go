package middleware

import (
	"StockDash/utils"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type rateWindow struct {
	start time.Time
	count int
}

// RateLimiter counts requests per client address inside a fixed window.
// One instance per route class (auth, stock-data, general), each with
// its own window length and ceiling. Safe for concurrent use.
type RateLimiter struct {
	window time.Duration
	max    int

	mu      sync.Mutex
	windows map[string]*rateWindow
	lookups int
}

// NewRateLimiter builds a limiter allowing max requests per window for
// each client key.
func NewRateLimiter(window time.Duration, max int) *RateLimiter {
	return &RateLimiter{
		window:  window,
		max:     max,
		windows: make(map[string]*rateWindow),
	}
}

// Allow records one request for key at time now and reports whether it
// fits the window, how many requests remain and when the window resets.
func (rl *RateLimiter) Allow(key string, now time.Time) (allowed bool, remaining int, reset time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Drop stale windows once in a while so one-off clients do not
	// accumulate forever. Done before touching the requested key so an
	// elapsed window for this very key gets evicted too.
	rl.lookups++
	if rl.lookups >= 5000 {
		for k, w := range rl.windows {
			if now.Sub(w.start) >= rl.window {
				delete(rl.windows, k)
			}
		}
		rl.lookups = 0
	}

	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.window {
		w = &rateWindow{start: now}
		rl.windows[key] = w
	}

	reset = w.start.Add(rl.window)
	if w.count >= rl.max {
		return false, 0, reset
	}

	w.count++
	return true, rl.max - w.count, reset
}

// Handler returns a Gin middleware enforcing the limit keyed by client
// IP. Limit state is surfaced through X-RateLimit-* headers; rejected
// requests get 429 with a Retry-After hint.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, reset := rl.Allow(c.ClientIP(), time.Now())

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if !allowed {
			retryAfter := time.Until(reset).Seconds()
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(int(retryAfter)))
			utils.ErrorResponse(c, http.StatusTooManyRequests, "Too many requests, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
