package database

import (
	"gorm.io/gorm"

	"jobportal/internal/domain"
)

// Migrate creates or updates every table the services use. Parents go first
// so foreign keys resolve.
func Migrate(db *gorm.DB) error {
	models := []interface{}{
		&domain.User{},
		&domain.Job{},
		&domain.Application{},
		&domain.SavedJob{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return err
		}
	}
	return nil
}
