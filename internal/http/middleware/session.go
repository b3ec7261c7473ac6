package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/credsvc/domain"
)

// SessionAuth validates the session cookie and loads the account it belongs
// to. On success the context carries "username", "session_token" and
// "auth_level" for downstream handlers.
func SessionAuth(cookieName string, sessionSvc domain.SessionService, userRepo domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"response_type": "Error", "message": "Not logged in."})
			c.Abort()
			return
		}

		username, err := sessionSvc.Validate(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"response_type": "Error", "message": "Not logged in."})
			c.Abort()
			return
		}

		user, err := userRepo.FindByUsername(c.Request.Context(), username)
		if err != nil {
			// Session rows can outlive their account by a race; treat as
			// unauthenticated rather than erroring.
			c.JSON(http.StatusUnauthorized, gin.H{"response_type": "Error", "message": "Not logged in."})
			c.Abort()
			return
		}

		c.Set("username", username)
		c.Set("session_token", token)
		c.Set("auth_level", user.AuthLevel)
		c.Next()
	}
}
