package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port           int    `yaml:"port"`
	GinMode        string `yaml:"gin_mode"`
	RequestTimeout string `yaml:"request_timeout"`
}

type DatabaseConfig struct {
	DSN     string `yaml:"dsn"`
	Timeout string `yaml:"timeout"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SessionConfig struct {
	Lifetime       string `yaml:"lifetime"`
	TokenLength    int    `yaml:"token_length"`
	CookieName     string `yaml:"cookie_name"`
	ReaperInterval string `yaml:"reaper_interval"`
	CacheTTL       string `yaml:"cache_ttl"`
}

type CodesConfig struct {
	TTL    string `yaml:"ttl"`
	Length int    `yaml:"length"`
}

type LoginConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
}

type PasswordConfig struct {
	MemoryKB      uint32 `yaml:"memory_kb"`
	Time          uint32 `yaml:"time"`
	Parallelism   uint8  `yaml:"parallelism"`
	SaltLength    uint32 `yaml:"salt_length"`
	KeyLength     uint32 `yaml:"key_length"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

type GoogleConfig struct {
	ClientID string `yaml:"client_id"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Session  SessionConfig  `yaml:"session"`
	Codes    CodesConfig    `yaml:"codes"`
	Login    LoginConfig    `yaml:"login"`
	Password PasswordConfig `yaml:"password"`
	Google   GoogleConfig   `yaml:"google"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Casbin   CasbinConfig   `yaml:"casbin"`
}

type Config struct {
	Port           string
	GinMode        string
	RequestTimeout time.Duration

	DSN             string
	DatabaseTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionLifetime   time.Duration
	SessionTokenLen   int
	SessionCookieName string
	ReaperInterval    time.Duration
	SessionCacheTTL   time.Duration

	CodeTTL    time.Duration
	CodeLength int

	MaxLoginAttempts int

	PasswordMemoryKB      uint32
	PasswordTime          uint32
	PasswordParallelism   uint8
	PasswordSaltLength    uint32
	PasswordKeyLength     uint32
	PasswordMaxConcurrent int

	GoogleClientID string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	CasbinModelPath string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	return LoadFrom("config/config.yml")
}

func LoadFrom(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	requestTimeout, err := parseDuration(configFile.App.RequestTimeout, 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid request timeout: %w", err)
	}

	dbTimeout, err := parseDuration(configFile.Database.Timeout, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid database timeout: %w", err)
	}

	sessionLifetime, err := parseDuration(configFile.Session.Lifetime, 1000*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid session lifetime: %w", err)
	}

	reaperInterval, err := parseDuration(configFile.Session.ReaperInterval, time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid reaper interval: %w", err)
	}

	cacheTTL, err := parseDuration(configFile.Session.CacheTTL, 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid session cache TTL: %w", err)
	}

	codeTTL, err := parseDuration(configFile.Codes.TTL, 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid code TTL: %w", err)
	}

	cfg := &Config{
		Port:           fmt.Sprintf("%d", configFile.App.Port),
		GinMode:        configFile.App.GinMode,
		RequestTimeout: requestTimeout,

		DSN:             env("DATABASE_DSN", configFile.Database.DSN),
		DatabaseTimeout: dbTimeout,

		RedisAddr:     configFile.Redis.Addr,
		RedisPassword: env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:       configFile.Redis.DB,

		SessionLifetime:   sessionLifetime,
		SessionTokenLen:   configFile.Session.TokenLength,
		SessionCookieName: configFile.Session.CookieName,
		ReaperInterval:    reaperInterval,
		SessionCacheTTL:   cacheTTL,

		CodeTTL:    codeTTL,
		CodeLength: configFile.Codes.Length,

		MaxLoginAttempts: configFile.Login.MaxAttempts,

		PasswordMemoryKB:      configFile.Password.MemoryKB,
		PasswordTime:          configFile.Password.Time,
		PasswordParallelism:   configFile.Password.Parallelism,
		PasswordSaltLength:    configFile.Password.SaltLength,
		PasswordKeyLength:     configFile.Password.KeyLength,
		PasswordMaxConcurrent: configFile.Password.MaxConcurrent,

		GoogleClientID: env("GOOGLE_CLIENT_ID", configFile.Google.ClientID),

		SMTPHost:     configFile.SMTP.Host,
		SMTPPort:     configFile.SMTP.Port,
		SMTPUsername: env("SMTP_USERNAME", configFile.SMTP.Username),
		SMTPPassword: env("SMTP_PASSWORD", configFile.SMTP.Password),
		SMTPFrom:     configFile.SMTP.From,

		CasbinModelPath: configFile.Casbin.ModelPath,
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.SessionTokenLen == 0 {
		cfg.SessionTokenLen = 100
	}
	if cfg.SessionCookieName == "" {
		cfg.SessionCookieName = "session-key"
	}
	if cfg.CodeLength == 0 {
		cfg.CodeLength = 8
	}
	if cfg.MaxLoginAttempts == 0 {
		cfg.MaxLoginAttempts = 5
	}
	if cfg.PasswordMemoryKB == 0 {
		cfg.PasswordMemoryKB = 64 * 1024
	}
	if cfg.PasswordTime == 0 {
		cfg.PasswordTime = 1
	}
	if cfg.PasswordParallelism == 0 {
		cfg.PasswordParallelism = 4
	}
	if cfg.PasswordSaltLength == 0 {
		cfg.PasswordSaltLength = 16
	}
	if cfg.PasswordKeyLength == 0 {
		cfg.PasswordKeyLength = 32
	}
	if cfg.PasswordMaxConcurrent == 0 {
		cfg.PasswordMaxConcurrent = 8
	}
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = 587
	}
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
