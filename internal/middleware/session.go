package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	SessionHeader = "X-Session-ID"
	SessionKey    = "sessionID"
)

// RequireSession reads the anonymous session from X-Session-ID. Cart,
// order and chat routes are scoped to it.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := strings.TrimSpace(c.GetHeader(SessionHeader))
		if sessionID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "X-Session-ID header is required"})
			return
		}
		if len(sessionID) > 255 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "X-Session-ID header is too long"})
			return
		}

		c.Set(SessionKey, sessionID)
		c.Next()
	}
}
