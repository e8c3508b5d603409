package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"taskapi/internal/shared"
)

// RateLimiter enforces a fixed-window request budget per client address and
// path. Entries live in an expiring cache whose janitor sweeps stale keys,
// so the window state stays bounded for the life of the process and resets
// on restart.
type RateLimiter struct {
	cache    *cache.Cache
	requests int
	window   time.Duration
	metrics  *shared.AppMetrics
	mutex    sync.Mutex
}

type rateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

func NewRateLimiter(requests int, window time.Duration, metrics *shared.AppMetrics) *RateLimiter {
	return &RateLimiter{
		cache:    cache.New(window, 2*window),
		requests: requests,
		window:   window,
		metrics:  metrics,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()

		if path == "" {
			path = c.Request.URL.Path
		}

		key := fmt.Sprintf("rate_limit:%s:%s", path, c.ClientIP())

		allowed, remaining, resetTime := rl.check(key)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(path)
			}

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"message":     fmt.Sprintf("Too many requests. Limit: %d per %v", rl.requests, rl.window),
				"retry_after": int(time.Until(resetTime).Seconds()),
			})
			c.Abort()

			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(path)
		}

		c.Next()
	}
}

func (rl *RateLimiter) check(key string) (bool, int, time.Time) {
	now := time.Now()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if raw, found := rl.cache.Get(key); found {
		entry := raw.(rateLimitEntry)

		if now.After(entry.ResetTime) {
			return rl.newWindow(key, now)
		}

		if entry.Count >= rl.requests {
			return false, 0, entry.ResetTime
		}

		entry.Count++
		rl.cache.Set(key, entry, cache.DefaultExpiration)

		return true, rl.requests - entry.Count, entry.ResetTime
	}

	return rl.newWindow(key, now)
}

func (rl *RateLimiter) newWindow(key string, now time.Time) (bool, int, time.Time) {
	resetTime := now.Add(rl.window)

	rl.cache.Set(key, rateLimitEntry{Count: 1, ResetTime: resetTime}, rl.window)

	return true, rl.requests - 1, resetTime
}

// ActiveEntries reports how many windows are currently tracked.
func (rl *RateLimiter) ActiveEntries() int {
	return rl.cache.ItemCount()
}
