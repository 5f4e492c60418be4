package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	radix "github.com/mediocregopher/radix/v3"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRateLimiter(t *testing.T) {
	l := NewInMemoryRateLimiter(2, time.Minute)
	require.True(t, l.Allow("a"))
	require.True(t, l.Allow("a"))
	require.False(t, l.Allow("a"))
	require.True(t, l.Allow("b"))
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(NewInMemoryRateLimiter(1, time.Minute)))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRedisRateLimiter(t *testing.T) {
	var mu sync.Mutex
	counts := map[string]int{}
	var expired []string
	stub := radix.Stub("tcp", "127.0.0.1:6379", func(args []string) interface{} {
		mu.Lock()
		defer mu.Unlock()
		switch args[0] {
		case "INCR":
			counts[args[1]]++
			return counts[args[1]]
		case "EXPIRE":
			expired = append(expired, args[1])
			return 1
		}
		return nil
	})
	l := NewRedisRateLimiter(stub, 2, time.Minute)
	l.now = func() time.Time { return time.Unix(600, 0) }

	require.True(t, l.Allow("1.2.3.4"))
	require.True(t, l.Allow("1.2.3.4"))
	require.False(t, l.Allow("1.2.3.4"))
	require.Equal(t, []string{"carty:rl:1.2.3.4:" + strconv.Itoa(10)}, expired)

	l.now = func() time.Time { return time.Unix(660, 0) }
	require.True(t, l.Allow("1.2.3.4"))
}
