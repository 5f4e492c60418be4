package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	radix "github.com/mediocregopher/radix/v3"
	"go.uber.org/zap"
)

// Limiter decides whether one more request for key is allowed.
type Limiter interface {
	Allow(key string) bool
}

// InMemoryRateLimiter limits requests per key (e.g. IP) with a sliding window.
type InMemoryRateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
}

func NewInMemoryRateLimiter(limit int, window time.Duration) *InMemoryRateLimiter {
	r := &InMemoryRateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
	go r.cleanup()
	return r
}

func (r *InMemoryRateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	valid := prune(r.requests[key], now.Add(-r.window))
	if len(valid) >= r.limit {
		r.requests[key] = valid
		return false
	}
	r.requests[key] = append(valid, now)
	return true
}

func prune(times []time.Time, cutoff time.Time) []time.Time {
	var valid []time.Time
	for _, t := range times {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	return valid
}

func (r *InMemoryRateLimiter) cleanup() {
	tick := time.NewTicker(time.Minute)
	for range tick.C {
		r.mu.Lock()
		cutoff := time.Now().Add(-r.window)
		for k, times := range r.requests {
			if valid := prune(times, cutoff); len(valid) == 0 {
				delete(r.requests, k)
			} else {
				r.requests[k] = valid
			}
		}
		r.mu.Unlock()
	}
}

// RedisRateLimiter is a fixed-window counter shared by every instance.
// Redis errors fail open.
type RedisRateLimiter struct {
	client radix.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedisRateLimiter(client radix.Client, limit int, window time.Duration) *RedisRateLimiter {
	if window < time.Second {
		window = time.Second
	}
	return &RedisRateLimiter{client: client, limit: limit, window: window, now: time.Now}
}

func (r *RedisRateLimiter) Allow(key string) bool {
	bucket := r.now().Unix() / int64(r.window/time.Second)
	rk := "carty:rl:" + key + ":" + strconv.FormatInt(bucket, 10)
	var n int
	if err := r.client.Do(radix.Cmd(&n, "INCR", rk)); err != nil {
		zap.L().Warn("[RateLimit] redis INCR failed", zap.String("key", rk), zap.Error(err))
		return true
	}
	if n == 1 {
		if err := r.client.Do(radix.FlatCmd(nil, "EXPIRE", rk, int64(r.window/time.Second))); err != nil {
			zap.L().Warn("[RateLimit] redis EXPIRE failed", zap.String("key", rk), zap.Error(err))
		}
	}
	return n <= r.limit
}

// RateLimit returns a middleware that limits by client IP.
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !limiter.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
