package db

import (
	"errors"
	"fmt"

	"github.com/chengtian/temple-backend/config"
	appLogger "github.com/chengtian/temple-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotConfigured is returned by Open when DATABASE_URL is empty.
var ErrNotConfigured = errors.New("database url not configured")

// Open connects to PostgreSQL and returns the shared pool.
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	appLogger.Info("Connecting to database", nil)

	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Use silent mode, we'll use our own logger
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	appLogger.Info("Database connection established successfully", map[string]interface{}{
		"max_idle_conns": 10,
		"max_open_conns": 100,
	})
	return db, nil
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
