package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/tablero-app/planner-backend/internal/auth"
)

// RateLimitMiddleware throttles requests per caller using a token bucket.
// Keyed by firebase uid when set, falling back to client IP for
// unauthenticated routes. Limiters for idle callers are evicted once the
// map grows past maxEntries.
func RateLimitMiddleware(rps rate.Limit, burst int) gin.HandlerFunc {
	const maxEntries = 10000

	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	return func(c *gin.Context) {
		key := c.GetString(auth.CtxFirebaseUID)
		if key == "" {
			key = c.ClientIP()
		}

		mu.Lock()
		lim, ok := limiters[key]
		if !ok {
			if len(limiters) >= maxEntries {
				limiters = make(map[string]*rate.Limiter)
			}
			lim = rate.NewLimiter(rps, burst)
			limiters[key] = lim
		}
		mu.Unlock()

		if !lim.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": "rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}
