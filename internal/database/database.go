package database

import (
	"log"

	"github.com/spellbe/portal-api/internal/config"
	"github.com/spellbe/portal-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// SQLite allows one writer; a single connection avoids "database is locked".
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}

// Migrate creates or updates every table the portal uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Counter{},
		&models.Event{},
		&models.StudentRegistration{},
		&models.VolunteerRegistration{},
		&models.ContactMessage{},
		&models.Submission{},
	)
}
