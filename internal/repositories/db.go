package repositories

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rohits-web03/smartstore/internal/config"
	"github.com/rohits-web03/smartstore/internal/models"
)

// ConnectDatabase opens the configured relational database and migrates the
// files table.
func ConnectDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Driver) {
	case config.MetadataPostgres:
		dialector = postgres.Open(cfg.DSN())
	case config.MetadataSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir %s: %w", dir, err)
			}
		}
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s database: %w", cfg.Driver, err)
	}

	// Run migrations
	if err := db.AutoMigrate(&models.FileRecord{}); err != nil {
		return nil, fmt.Errorf("migrate files table: %w", err)
	}

	slog.Info("Successfully connected to database", slog.String("driver", cfg.Driver))
	return db, nil
}

// OpenFileRepository returns the metadata store selected by cfg.Driver and a
// function releasing its resources.
func OpenFileRepository(cfg config.DatabaseConfig) (FileRepository, func() error, error) {
	if strings.ToLower(cfg.Driver) == config.MetadataMemory {
		slog.Warn("Using in-memory metadata store; records are lost on restart")
		return NewMemoryFileRepository(), func() error { return nil }, nil
	}

	db, err := ConnectDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql handle: %w", err)
	}
	return NewGormFileRepository(db), sqlDB.Close, nil
}
