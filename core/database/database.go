package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the local SQLite store.
// The store is the device-local authoritative view of the user's library,
// so it must be usable with no network at all.
func Connect(cfg Config) (*gorm.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	busyTimeout := cfg.BusyTimeoutMS
	if busyTimeout <= 0 {
		busyTimeout = 5000
	}

	dsn := cfg.Path
	if dsn != ":memory:" {
		// WAL lets the sync writer and UI readers interleave without
		// SQLITE_BUSY storms; busy_timeout covers the rest.
		dsn = fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d", cfg.Path, busyTimeout)
	}

	// Suppress GORM logging; the application logger owns output.
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// SQLite tolerates exactly one writer; a single connection sidesteps
	// lock contention between the sync orchestrators and mutation writes.
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}
