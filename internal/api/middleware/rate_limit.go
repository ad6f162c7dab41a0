package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware enforces fixed-window limits backed by Redis, so the
// counters hold across instances. A nil client disables limiting.
type RateLimitMiddleware struct {
	client *redis.Client
}

func NewRateLimitMiddleware(client *redis.Client) *RateLimitMiddleware {
	return &RateLimitMiddleware{client: client}
}

// RateLimit limits authenticated callers per identity and endpoint.
func (rm *RateLimitMiddleware) RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rm.client == nil {
			c.Next()
			return
		}

		identity := c.GetString("external_id")
		if identity == "" {
			identity = c.ClientIP()
		}
		key := fmt.Sprintf("rate_limit:%s:%s", identity, c.Request.URL.Path)

		count, err := rm.client.Incr(c.Request.Context(), key).Result()
		if err != nil {
			// Redis trouble should not take the API down.
			c.Next()
			return
		}
		if count == 1 {
			rm.client.Expire(c.Request.Context(), key, window)
		}

		if count > int64(requests) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    "RATE_LIMITED",
				"message": fmt.Sprintf("too many requests, limit is %d per %v", requests, window),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
