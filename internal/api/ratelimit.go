package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientLimiter hands out one token bucket per client address.
type clientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	return &clientLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (cl *clientLimiter) limiter(key string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	l, ok := cl.limiters[key]
	if !ok {
		l = rate.NewLimiter(cl.rps, cl.burst)
		cl.limiters[key] = l
	}
	return l
}

// RateLimit returns a Gin middleware enforcing a per-client token bucket.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	cl := newClientLimiter(rps, burst)

	return func(c *gin.Context) {
		if !cl.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests",
			})
			return
		}
		c.Next()
	}
}
