package db

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"disclosure-intake/internal/domain/analytics"
	"disclosure-intake/internal/domain/submission"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenGorm connects to MySQL. logLevel is one of silent, error, warn, info.
func OpenGorm(dsn, logLevel string) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn), logLevel)
}

// OpenGormWithDialector is the seam used by tests to inject a mocked connection.
func OpenGormWithDialector(dial gorm.Dialector, logLevel ...string) (*gorm.DB, error) {
	level := "warn"
	if len(logLevel) > 0 {
		level = logLevel[0]
	}
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(parseLogLevel(level)),
		// duplicate keys surface as gorm.ErrDuplicatedKey
		TranslateError: true,
		// pinged explicitly below, after pool settings apply
		DisableAutomaticPing: true,
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	slog.Info("gorm: connected")
	return db, nil
}

// Migrate creates or updates the tables for every persisted model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&submission.Submission{}, &analytics.Event{})
}

// Ping is the health check for the database.
func Ping(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func parseLogLevel(s string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
