package app

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/you/credsvc/domain"
	"github.com/you/credsvc/internal/config"
	"github.com/you/credsvc/internal/infrastructure/auth"
	"github.com/you/credsvc/internal/infrastructure/cache"
	"github.com/you/credsvc/internal/infrastructure/database"
	"github.com/you/credsvc/internal/infrastructure/notifications"
	"github.com/you/credsvc/internal/infrastructure/repositories"
	"github.com/you/credsvc/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client

	// Repositories
	UserRepo    domain.UserRepository
	SessionRepo domain.SessionRepository
	CodeRepo    domain.CodeRepository

	// Services
	PasswordSvc domain.PasswordService
	EmailSvc    domain.EmailSender
	Verifier    domain.IdentityVerifier
	SessionSvc  domain.SessionService
	CodeSvc     domain.CodeService
	AuthSvc     domain.AuthService
	PolicySvc   domain.PolicyService
	Reaper      *services.SessionReaper
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	container := &Container{Config: cfg}

	if err := container.initDatabase(); err != nil {
		return nil, err
	}
	container.initRedis()
	container.initRepositories()
	if err := container.initServices(); err != nil {
		return nil, err
	}

	return container, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db
	return nil
}

func (c *Container) initRedis() {
	// The session cache is optional; when no address is configured the
	// session service runs straight off the database.
	if c.Config.RedisAddr == "" {
		return
	}
	c.RedisClient = database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB).Client
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB, c.Config.DatabaseTimeout)
	c.SessionRepo = repositories.NewSessionRepository(c.DB, c.Config.DatabaseTimeout)
	c.CodeRepo = repositories.NewCodeRepository(c.DB, c.Config.DatabaseTimeout)
}

func (c *Container) initServices() error {
	c.PasswordSvc = auth.NewPasswordService(auth.Argon2Config{
		MemoryKB:      c.Config.PasswordMemoryKB,
		Time:          c.Config.PasswordTime,
		Parallelism:   c.Config.PasswordParallelism,
		SaltLength:    c.Config.PasswordSaltLength,
		KeyLength:     c.Config.PasswordKeyLength,
		MaxConcurrent: c.Config.PasswordMaxConcurrent,
	})
	c.EmailSvc = notifications.NewSMTPService(
		c.Config.SMTPHost,
		c.Config.SMTPPort,
		c.Config.SMTPUsername,
		c.Config.SMTPPassword,
	)
	c.Verifier = auth.NewGoogleVerifier()

	var sessionCache domain.SessionCache
	if c.RedisClient != nil {
		sessionCache = cache.NewSessionCache(c.RedisClient, c.Config.SessionCacheTTL)
	}
	c.SessionSvc = services.NewSessionService(c.SessionRepo, sessionCache, c.Config.SessionLifetime, c.Config.SessionTokenLen)
	c.CodeSvc = services.NewCodeService(c.CodeRepo, c.EmailSvc, c.Config.CodeTTL, c.Config.CodeLength, c.Config.SMTPFrom)

	cas, err := auth.NewCasbinService(c.DB, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}
	c.PolicySvc = services.NewPolicyService(cas.E)
	if err := c.PolicySvc.SeedDefaults(); err != nil {
		return err
	}

	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.SessionSvc,
		c.PasswordSvc,
		c.CodeSvc,
		c.Verifier,
		c.Config.MaxLoginAttempts,
		c.Config.GoogleClientID,
	)
	c.Reaper = services.NewSessionReaper(c.SessionRepo, c.Config.ReaperInterval)

	return nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
