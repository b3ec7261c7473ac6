package e2e

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	httpx "github.com/you/credsvc/internal/http"
	"github.com/you/credsvc/internal/http/handlers"
	"github.com/you/credsvc/internal/http/middleware"
	"github.com/you/credsvc/internal/infrastructure/auth"
	"github.com/you/credsvc/internal/infrastructure/repositories"
	"github.com/you/credsvc/internal/mocks"
	"github.com/you/credsvc/internal/services"
)

const (
	testCookieName  = "session-key"
	testMaxAttempts = 5
)

// setupEnv wires the real service stack over an in-memory database, with the
// email transport and identity verifier mocked at the boundary.
func setupEnv(t *testing.T) (*gin.Engine, *mocks.MockEmailSender, *mocks.MockIdentityVerifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&repositories.DBUser{}, &repositories.DBSession{}, &repositories.DBCode{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	userRepo := repositories.NewUserRepository(db, time.Second)
	sessionRepo := repositories.NewSessionRepository(db, time.Second)
	codeRepo := repositories.NewCodeRepository(db, time.Second)

	passwordSvc := auth.NewPasswordService(auth.Argon2Config{
		MemoryKB:      8 * 1024,
		Time:          1,
		Parallelism:   1,
		SaltLength:    16,
		KeyLength:     32,
		MaxConcurrent: 2,
	})

	emailSender := mocks.NewMockEmailSender()
	verifier := mocks.NewMockIdentityVerifier()

	sessionSvc := services.NewSessionService(sessionRepo, nil, 24*time.Hour, 100)
	codeSvc := services.NewCodeService(codeRepo, emailSender, 24*time.Hour, 8, "no-reply@example.com")
	authSvc := services.NewAuthService(userRepo, sessionSvc, passwordSvc, codeSvc, verifier, testMaxAttempts, "test-client-id")

	authH := handlers.NewAuthHandlers(authSvc, sessionSvc, testCookieName, 24*time.Hour)
	polH := handlers.NewPolicyHandlers(mocks.NewMockPolicyService())

	sessionMW := middleware.SessionAuth(testCookieName, sessionSvc, userRepo)
	casbinMW := middleware.NewCasbinMW(mocks.NewMockPolicyService())

	return httpx.BuildRouter(authH, polH, sessionMW, casbinMW), emailSender, verifier
}
