package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"oms-backend/internal/model"
	"oms-backend/pkg/config"
)

var db *gorm.DB

// InitDB initializes the database connection with configuration and runs migrations
func InitDB(config *config.Config) error {
	var err error

	// Configure GORM logger
	logLevel := logger.Error
	if config.Server.Env == "development" {
		logLevel = logger.Info
	}

	// Create DSN string
	dsn := config.DB.GetDSN()

	// Configure Postgres options
	pgConfig := postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // Disables implicit prepared statement usage
	}

	// Open connection
	db, err = gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get generic database object SQL
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	// Set connection pool settings from config
	sqlDB.SetMaxIdleConns(config.DB.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.DB.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.DB.ConnMaxLifetime)

	// Run migrations
	if err := db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Customer{},
		&model.Order{},
		&model.OrderItem{},
		&model.Invoice{},
	); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}
