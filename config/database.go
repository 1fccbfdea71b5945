package config

import (
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultSQLiteFile = "ostaa.db"

var DB *gorm.DB

// Dialector picks the gorm driver for the configured database
func Dialector(cfg *Config) (gorm.Dialector, error) {
	switch cfg.DatabaseDriver {
	case DriverPostgres:
		return postgres.Open(cfg.DatabaseURL), nil
	case DriverMySQL:
		return mysql.Open(cfg.DatabaseURL), nil
	case DriverSQLite:
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = defaultSQLiteFile
			log.Println("DATABASE_URL not set, using local sqlite file:", dsn)
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}

// GormLogLevel maps LOG_LEVEL onto gorm's SQL logger
func GormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		return logger.Warn
	}
}

// ConnectDatabase establishes the connection for the configured driver
func ConnectDatabase(cfg *Config) error {
	dialector, err := Dialector(cfg)
	if err != nil {
		return err
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(GormLogLevel(cfg.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.DatabaseDriver == DriverSQLite {
		// sqlite allows a single writer
		sqlDB, err := DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.Printf("Database connection established successfully (driver=%s)", cfg.DatabaseDriver)
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (primarily for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
