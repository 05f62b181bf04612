package store

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/solspace/solspace-backend/internal/config"
	"github.com/solspace/solspace-backend/internal/store/schema"
)

// Models lists every table the service owns, in creation order
var Models = []interface{}{
	&schema.KeyValueStore{},
	&schema.Balance{},
	&schema.LedgerEntry{},
	&schema.GameEvent{},
	&schema.SeasonResult{},
}

// OpenDB opens a gorm connection for the configured driver and applies the pool settings.
// SQLite databases are limited to one open connection so writes serialize.
func OpenDB(cfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := gormlogger.Silent
	if debug {
		logLevel = gormlogger.Info
	}
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DRIVER_POSTGRES:
		dialector = postgres.Open(cfg.DSN())
	case config.DRIVER_SQLITE:
		dialector = sqlite.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	maxOpen, maxIdle := cfg.MaxOpenConns, cfg.MaxIdleConns
	if cfg.Driver == config.DRIVER_SQLITE {
		maxOpen, maxIdle = 1, 1
	}
	if err := ConfigureConnectionPool(db, maxOpen, maxIdle, cfg.ConnMaxLifetime, cfg.ConnMaxIdleTime); err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Migrate creates or updates the tables from the gorm models.
// Production PostgreSQL deployments apply db/init_pg_db.sql instead.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
