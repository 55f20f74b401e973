package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-tutor/internal/domain/student"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&student.Profile{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
