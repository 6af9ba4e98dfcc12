package database

import (
	"fmt"

	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Constructor{},
		&models.Driver{},
		&models.Notification{},
		&models.Contact{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
