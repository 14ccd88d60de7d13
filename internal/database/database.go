package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"productos/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite://"

// Config holds the store connection settings.
type Config struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// Open builds the store handle without contacting the server. URLs starting
// with sqlite:// select the embedded driver; anything else is a PostgreSQL DSN.
func Open(cfg Config, log *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(dialector(cfg.URL), &gorm.Config{
		DisableAutomaticPing: true,
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	return db, nil
}

// Connect checks connectivity and migrates the products table. Failures are
// logged and returned; callers may keep serving in degraded mode.
func Connect(ctx context.Context, db *gorm.DB, log *logrus.Logger) error {
	err := connect(ctx, db)
	if err != nil {
		log.WithError(err).Error("Error al conectar a la base de datos!!")
		return err
	}
	log.Info("Conexión correcta a la base de datos")
	return nil
}

func connect(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&models.Product{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialector(url string) gorm.Dialector {
	if path, ok := strings.CutPrefix(url, sqlitePrefix); ok {
		return sqlite.Open(path)
	}
	return postgres.Open(url)
}
