package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/you/credsvc/internal/infrastructure/repositories"
)

// Open creates a new database connection with production-ready settings
func Open(dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: "auth.",
		},
	}

	return gorm.Open(postgres.Open(dsn), config)
}

// AutoMigrate creates the users, sessions and codes tables. Uniqueness of
// username, email and session token is enforced here at the storage layer.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&repositories.DBUser{},
		&repositories.DBSession{},
		&repositories.DBCode{},
	); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}
	return nil
}
