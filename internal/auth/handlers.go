package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LoginPayload defines the expected JSON structure for login requests.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// sessionMaxAge is the session cookie lifetime in seconds.
const sessionMaxAge = 3600

// LoginHandler checks submitted credentials against the configured admin
// account and sets the session cookie on success.
func LoginHandler(c *gin.Context) {
	var payload LoginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request payload"})
		return
	}

	if !admin.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Admin credentials not configured on server"})
		return
	}

	if !admin.Matches(payload.Username, payload.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
		return
	}

	// Secure=false for local dev without HTTPS.
	c.SetCookie(sessionCookieName, sessionToken, sessionMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   sessionToken,
	})
}

// LogoutHandler clears the session cookie.
func LogoutHandler(c *gin.Context) {
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}
