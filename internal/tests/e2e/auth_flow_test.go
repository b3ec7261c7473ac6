package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/credsvc/domain"
	"github.com/you/credsvc/internal/mocks"
)

var codePattern = regexp.MustCompile(`[A-Z0-9]{8}`)

func postJSON(t *testing.T, router *gin.Engine, path string, payload map[string]string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func lastCode(t *testing.T, sender *mocks.MockEmailSender) string {
	t.Helper()
	sent := sender.LastSent()
	require.NotNil(t, sent, "expected an email to have been sent")
	code := codePattern.FindString(sent.Body)
	require.NotEmpty(t, code, "no code found in email body: %s", sent.Body)
	return code
}

func register(t *testing.T, router *gin.Engine, email string) {
	t.Helper()
	w := postJSON(t, router, "/auth/register", map[string]string{
		"username":         "alice",
		"email":            email,
		"password":         "supersecret",
		"confirm_password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	router, sender, _ := setupEnv(t)

	register(t, router, "alice@example.com")
	code := lastCode(t, sender)

	// The verification code redeems exactly once.
	w := postJSON(t, router, "/auth/verify-email", map[string]string{
		"email": "alice@example.com",
		"code":  code,
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = postJSON(t, router, "/auth/verify-email", map[string]string{
		"email": "alice@example.com",
		"code":  code,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Login issues a session cookie that authenticates /auth/me.
	w = postJSON(t, router, "/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookie := sessionCookie(t, w)
	assert.Len(t, cookie.Value, 100)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(cookie)
	me := httptest.NewRecorder()
	router.ServeHTTP(me, req)
	assert.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), "alice")
	assert.Contains(t, me.Body.String(), domain.AuthLevelVerified)
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	router, _, _ := setupEnv(t)

	register(t, router, "alice@example.com")

	w := postJSON(t, router, "/auth/register", map[string]string{
		"username":         "alice2",
		"email":            "alice@example.com",
		"password":         "supersecret",
		"confirm_password": "supersecret",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = postJSON(t, router, "/auth/register", map[string]string{
		"username":         "alice",
		"email":            "other@example.com",
		"password":         "supersecret",
		"confirm_password": "supersecret",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestChangePasswordFlow(t *testing.T) {
	router, _, _ := setupEnv(t)

	register(t, router, "alice@example.com")

	w := postJSON(t, router, "/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)

	w = postJSON(t, router, "/auth/change-password", map[string]string{
		"old_password":     "supersecret",
		"new_password":     "evenmoresecret",
		"confirm_password": "evenmoresecret",
	}, cookie)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Old password stops working, new one logs in.
	w = postJSON(t, router, "/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "supersecret",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, router, "/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "evenmoresecret",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLockoutAndResetFlow(t *testing.T) {
	router, sender, _ := setupEnv(t)

	register(t, router, "alice@example.com")

	// Five failures lock the account.
	for i := 0; i < testMaxAttempts; i++ {
		w := postJSON(t, router, "/auth/login", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong-password",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	// Even the correct password is rejected now.
	w := postJSON(t, router, "/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "supersecret",
	}, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// A completed reset zeroes the counter and unlocks login.
	w = postJSON(t, router, "/auth/password-reset", map[string]string{
		"email": "alice@example.com",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	code := lastCode(t, sender)

	w = postJSON(t, router, "/auth/password-reset/complete", map[string]string{
		"email":            "alice@example.com",
		"code":             code,
		"password":         "freshpassword",
		"confirm_password": "freshpassword",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = postJSON(t, router, "/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "freshpassword",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestLogoutInvalidatesSession(t *testing.T) {
	router, _, _ := setupEnv(t)

	register(t, router, "alice@example.com")

	w := postJSON(t, router, "/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)

	w = postJSON(t, router, "/auth/logout", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	// The old cookie no longer authenticates.
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(cookie)
	me := httptest.NewRecorder()
	router.ServeHTTP(me, req)
	assert.Equal(t, http.StatusUnauthorized, me.Code)
}

func TestGoogleLoginFlow(t *testing.T) {
	router, _, verifier := setupEnv(t)

	verifier.VerifyFunc = func(ctx context.Context, rawToken, audience string) (*domain.IdentityClaims, error) {
		if rawToken != "good-token" {
			return nil, domain.ErrIdentityToken
		}
		return &domain.IdentityClaims{
			Subject:       "google-subject-123",
			Email:         "gina@example.com",
			EmailVerified: true,
		}, nil
	}

	// First login creates the account, second one reuses it.
	w := postJSON(t, router, "/auth/google", map[string]string{"id_token": "good-token"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := sessionCookie(t, w)

	w = postJSON(t, router, "/auth/google", map[string]string{"id_token": "good-token"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	second := sessionCookie(t, w)
	assert.NotEqual(t, first.Value, second.Value)

	// The federated account cannot use the password flows.
	w = postJSON(t, router, "/auth/login", map[string]string{
		"email":    "gina@example.com",
		"password": "supersecret",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = postJSON(t, router, "/auth/password-reset", map[string]string{
		"email": "gina@example.com",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// A bad token is rejected.
	w = postJSON(t, router, "/auth/google", map[string]string{"id_token": "bad-token"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	router, _, _ := setupEnv(t)

	register(t, router, "alice@example.com")

	w := postJSON(t, router, "/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "supersecret",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)

	req := httptest.NewRequest(http.MethodGet, "/admin/policies", nil)
	req.AddCookie(cookie)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}
