package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/credsvc/domain"
)

// Response envelope types returned on every endpoint.
const (
	TypeRegistrationSuccess          = "RegistrationSuccess"
	TypeLoginSuccess                 = "LoginSuccess"
	TypeEmailVerificationSuccess     = "EmailVerificationSuccess"
	TypePasswordChangeSuccess        = "PasswordChangeSuccess"
	TypePasswordResetInitiateSuccess = "PasswordResetInitiationSuccess"
	TypePasswordResetSuccess         = "PasswordResetSuccess"
	TypeLogoutSuccess                = "LogoutSuccess"
	TypeSessionInvalidationSuccess   = "SessionInvalidationSuccess"
	TypeError                        = "Error"
)

// Response is the JSON envelope shared by success and error payloads.
type Response struct {
	ResponseType string      `json:"response_type"`
	Message      string      `json:"message"`
	Data         interface{} `json:"data,omitempty"`
}

// AuthHandlers handles credential and session HTTP requests
type AuthHandlers struct {
	authSvc    domain.AuthService
	sessionSvc domain.SessionService

	cookieName      string
	sessionLifetime time.Duration
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, sessionSvc domain.SessionService, cookieName string, sessionLifetime time.Duration) *AuthHandlers {
	return &AuthHandlers{
		authSvc:         authSvc,
		sessionSvc:      sessionSvc,
		cookieName:      cookieName,
		sessionLifetime: sessionLifetime,
	}
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest carries the raw ID token issued by Google
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// VerifyEmailRequest represents a verification code redemption
type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// PasswordResetRequest starts the reset flow
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required"`
}

// PasswordResetCompleteRequest redeems a reset code with the new password
type PasswordResetCompleteRequest struct {
	Email           string `json:"email" binding:"required"`
	Code            string `json:"code" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ChangePasswordRequest represents an authenticated password change
type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// respondError maps the domain error taxonomy onto HTTP statuses. Storage
// errors are logged and replaced with a generic message so internals never
// leak to clients.
func respondError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	message := err.Error()

	var status int
	switch kind {
	case domain.KindInvalidInput, domain.KindInvalidOrExpiredCode:
		status = http.StatusBadRequest
	case domain.KindConflict:
		status = http.StatusConflict
	case domain.KindUnauthorized, domain.KindUpstreamIdentity:
		status = http.StatusUnauthorized
	case domain.KindTooManyAttempts:
		status = http.StatusTooManyRequests
	case domain.KindDelivery:
		status = http.StatusBadGateway
	default:
		log.Printf("INTERNAL_ERROR: path=%s error=%v", c.FullPath(), err)
		status = http.StatusInternalServerError
		message = "internal error"
	}

	c.JSON(status, Response{ResponseType: TypeError, Message: message})
}

func (h *AuthHandlers) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(h.cookieName, token, int(h.sessionLifetime.Seconds()), "/", "", true, true)
}

func (h *AuthHandlers) clearSessionCookie(c *gin.Context) {
	c.SetCookie(h.cookieName, "", -1, "/", "", true, true)
}

// Register handles user registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{ResponseType: TypeError, Message: err.Error()})
		return
	}

	_, err := h.authSvc.Register(c.Request.Context(), domain.RegistrationDetails{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{
		ResponseType: TypeRegistrationSuccess,
		Message:      "Registration successful. Please check your email to verify your account.",
	})
}

// Login handles password login and sets the session cookie
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{ResponseType: TypeError, Message: err.Error()})
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, result.Session.Token)
	c.JSON(http.StatusOK, Response{ResponseType: TypeLoginSuccess, Message: "Login successful."})
}

// GoogleLogin handles federated login via a Google ID token
func (h *AuthHandlers) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{ResponseType: TypeError, Message: err.Error()})
		return
	}

	result, err := h.authSvc.LoginWithIDToken(c.Request.Context(), req.IDToken)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, result.Session.Token)
	c.JSON(http.StatusOK, Response{ResponseType: TypeLoginSuccess, Message: "Login successful."})
}

// VerifyEmail redeems an email verification code
func (h *AuthHandlers) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{ResponseType: TypeError, Message: err.Error()})
		return
	}

	if err := h.authSvc.VerifyEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{ResponseType: TypeEmailVerificationSuccess, Message: "Email verified."})
}

// InitiatePasswordReset emails a reset code to the account
func (h *AuthHandlers) InitiatePasswordReset(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{ResponseType: TypeError, Message: err.Error()})
		return
	}

	if err := h.authSvc.InitiatePasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		ResponseType: TypePasswordResetInitiateSuccess,
		Message:      "Password reset email sent.",
	})
}

// CompletePasswordReset redeems a reset code and installs the new password
func (h *AuthHandlers) CompletePasswordReset(c *gin.Context) {
	var req PasswordResetCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{ResponseType: TypeError, Message: err.Error()})
		return
	}

	if err := h.authSvc.CompletePasswordReset(c.Request.Context(), req.Email, req.Code, req.Password, req.ConfirmPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{ResponseType: TypePasswordResetSuccess, Message: "Password reset."})
}

// ChangePassword handles an authenticated password change
func (h *AuthHandlers) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{ResponseType: TypeError, Message: err.Error()})
		return
	}

	username := c.GetString("username")
	if err := h.authSvc.ChangePassword(c.Request.Context(), username, req.OldPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{ResponseType: TypePasswordChangeSuccess, Message: "Password changed."})
}

// Me returns the authenticated account's profile
func (h *AuthHandlers) Me(c *gin.Context) {
	username := c.GetString("username")
	user, err := h.authSvc.GetProfile(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		ResponseType: TypeLoginSuccess,
		Message:      "Authenticated.",
		Data: gin.H{
			"username":       user.Username,
			"email":          user.Email,
			"provider":       user.Provider,
			"auth_level":     user.AuthLevel,
			"email_verified": user.EmailVerified,
		},
	})
}

// Logout invalidates the caller's own session and clears the cookie
func (h *AuthHandlers) Logout(c *gin.Context) {
	token := c.GetString("session_token")
	if err := h.sessionSvc.Invalidate(c.Request.Context(), token); err != nil {
		respondError(c, err)
		return
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, Response{ResponseType: TypeLogoutSuccess, Message: "Logged out."})
}

// AdminInvalidateSession revokes any session by token
func (h *AuthHandlers) AdminInvalidateSession(c *gin.Context) {
	token := c.Param("token")
	if err := h.sessionSvc.Invalidate(c.Request.Context(), token); err != nil {
		respondError(c, err)
		return
	}

	log.Printf("SESSION_REVOKED_BY_ADMIN: actor=%s", c.GetString("username"))
	c.JSON(http.StatusOK, Response{ResponseType: TypeSessionInvalidationSuccess, Message: "Session invalidated."})
}
