package middleware

import (
	"net/http"
	"strings"

	"jokenpo/internal/service"

	"github.com/gin-gonic/gin"
)

// PlayerIDKey is the gin context key holding the authenticated player id.
const PlayerIDKey = "player_id"

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return c.Query("token")
}

// JWT rejects requests without a valid player token.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}
		playerID, err := service.ParseJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(PlayerIDKey, playerID)
		c.Next()
	}
}

// OptionalJWT attributes the request when a valid token is present and
// lets anonymous requests through.
func OptionalJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if playerID, err := service.ParseJWT(token); err == nil {
				c.Set(PlayerIDKey, playerID)
			}
		}
		c.Next()
	}
}

// PlayerID reads the id set by JWT or OptionalJWT.
func PlayerID(c *gin.Context) (string, bool) {
	v, ok := c.Get(PlayerIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
