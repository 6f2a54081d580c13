package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// PlayRateLimit limits arbitration requests per player, falling back to the
// client IP for anonymous callers. Run OptionalJWT or JWT before it.
func PlayRateLimit(maxPlays int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		ident := "ip:" + c.ClientIP()
		if playerID, ok := PlayerID(c); ok {
			ident = "player:" + playerID
		}
		key := "play_rl:" + ident + ":" + strconv.FormatInt(int64(window.Seconds()), 10)

		val, err := fixedWindow(c.Request.Context(), key, window)
		if err != nil {
			c.Header("X-PlayRateLimit-Error", "redis-error")
			c.Next()
			return
		}

		c.Header("X-PlayRateLimit-Limit", strconv.Itoa(maxPlays))
		c.Header("X-PlayRateLimit-Remaining", strconv.FormatInt(max(0, int64(maxPlays)-val), 10))

		if val > int64(maxPlays) {
			RLBlocked.WithLabelValues("play:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "play rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("play:" + c.FullPath()).Inc()
		c.Next()
	}
}
