package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/you/credsvc/internal/http/handlers"
	"github.com/you/credsvc/internal/http/middleware"
)

func BuildRouter(ah *handlers.AuthHandlers, ph *handlers.PolicyHandlers, session gin.HandlerFunc, cb *middleware.CasbinMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/register", ah.Register)
	auth.POST("/login", ah.Login)
	auth.POST("/google", ah.GoogleLogin)
	auth.POST("/verify-email", ah.VerifyEmail)
	auth.POST("/password-reset", ah.InitiatePasswordReset)
	auth.POST("/password-reset/complete", ah.CompletePasswordReset)

	v := r.Group("/auth").Use(session)
	v.GET("/me", ah.Me)
	v.POST("/change-password", ah.ChangePassword)
	v.POST("/logout", ah.Logout)

	adm := r.Group("/admin").Use(session, cb.Enforce())
	adm.DELETE("/sessions/:token", ah.AdminInvalidateSession)
	adm.GET("/policies", ph.List)
	adm.POST("/policies", ph.Add)
	adm.DELETE("/policies", ph.Remove)

	return r
}
