package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware checks for a valid admin session cookie and aborts the
// request with 401 otherwise.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(sessionCookieName)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized: Missing session token"})
			c.Abort()
			return
		}

		if cookie != sessionToken {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized: Invalid session token"})
			c.Abort()
			return
		}

		c.Next()
	}
}
