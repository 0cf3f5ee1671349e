package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// initDB opens the database at dataSource with the driver selected by build
// tags, creating its parent directory if needed, and sets up every schema the
// APIs rely on.
func initDB(dataSource string) (*sql.DB, error) {
	path, _, _ := strings.Cut(strings.TrimPrefix(dataSource, "file:"), "?")
	if dir := filepath.Dir(path); path != "" && path != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := openDB(dataSource)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", sqliteDriver, err)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	for name, setup := range map[string]func(*sql.DB) error{
		"auth":  setupAuthSchema,
		"stats": setupStatsSchema,
	} {
		if err = setup(db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to setup %s schema: %w", name, err)
		}
	}
	return db, nil
}
