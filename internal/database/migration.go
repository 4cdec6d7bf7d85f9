package database

import (
	"fmt"

	"github.com/ekinyalgin/consolevite-sub000/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.BalanceEntry{},
		&models.UserTotalBalance{},
		&models.Site{},
		&models.Language{},
		&models.Category{},
		&models.SiteLanguage{},
		&models.SiteCategory{},
		&models.Url{},
		&models.Todo{},
		&models.Video{},
		&models.Exercise{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
