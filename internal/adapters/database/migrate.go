package database

import (
	"fmt"

	"gorm.io/gorm"

	"linkup-service/internal/friendship"
	"linkup-service/internal/user"
)

// Migrate runs schema migrations for all models.
func Migrate(db *gorm.DB) error {
	modelsToMigrate := []interface{}{
		&user.User{},
		&friendship.Friendship{},
	}

	for _, model := range modelsToMigrate {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model: %w", err)
		}
	}

	return nil
}
