package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/diewo77/go-portale/internal/models"
)

// Connect opens the PostgreSQL connection, retrying a few times so the app
// can come up before the database container does.
func Connect(dsn string) (*gorm.DB, error) {
	var conn *gorm.DB
	var err error
	for i := 0; i < 5; i++ {
		conn, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err == nil {
			return conn, nil
		}
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("database connection failed: %w", err)
}

// Migrate applies GORM auto-migrations for every model.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.UserRole{},
		&models.Society{},
		&models.Event{},
		&models.Discipline{},
	); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	return nil
}
