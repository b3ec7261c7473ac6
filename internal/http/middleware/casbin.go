package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/credsvc/domain"
)

// CasbinMW enforces role policies for routes behind SessionAuth

type CasbinMW struct {
	policySvc domain.PolicyService
}

// NewCasbinMW creates new casbin middleware wrapper
func NewCasbinMW(policySvc domain.PolicyService) *CasbinMW {
	return &CasbinMW{policySvc: policySvc}
}

// Enforce checks the account's role against the request path and method.
// The role is derived from the auth level set by SessionAuth.
func (mw *CasbinMW) Enforce() gin.HandlerFunc {
	return func(c *gin.Context) {
		authLevel := c.GetString("auth_level")
		if authLevel == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"response_type": "Error", "message": "Not logged in."})
			c.Abort()
			return
		}

		role := "role_" + authLevel
		allowed, err := mw.policySvc.CheckPermission(role, c.Request.URL.Path, c.Request.Method)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"response_type": "Error", "message": "internal error"})
			c.Abort()
			return
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"response_type": "Error", "message": "Forbidden."})
			c.Abort()
			return
		}

		c.Next()
	}
}
