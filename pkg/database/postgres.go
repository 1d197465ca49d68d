package database

import (
	"log"

	"github.com/lookfor-app/experience-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Uniqueness violations surface as gorm.ErrDuplicatedKey instead of
		// driver-specific codes.
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Experience{}, &models.Enrollment{}, &models.Profile{}); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	return db
}
