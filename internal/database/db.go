package database

import (
	"context"
	"fmt"
	"time"

	"coal-site/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	maxAttempts  = 10
	retryBackoff = 2 * time.Second
)

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// Connect opens the database, retrying while the server is still starting up.
func Connect(ctx context.Context, driver, dsn string, log *zap.Logger) (*gorm.DB, error) {
	dial, err := dialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	var db *gorm.DB
	for i := 1; i <= maxAttempts; i++ {
		log.Info("connecting to db", zap.String("driver", driver), zap.Int("attempt", i), zap.Int("max", maxAttempts))

		db, err = gorm.Open(dial, &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err == nil {
			err = Ping(ctx, db)
		}
		if err == nil {
			log.Info("connected to db")
			return db, nil
		}

		log.Warn("failed to connect to db", zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryBackoff):
		}
	}

	return nil, fmt.Errorf("connect to db after %d attempts: %w", maxAttempts, err)
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Migrate creates or updates every table the site uses.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Project{},
		&models.Inquiry{},
		&models.SiteSettings{},
		&models.SocialLink{},
		&models.BudgetOption{},
		&models.AuditLog{},
		&models.SeedRun{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
