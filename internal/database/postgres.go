package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/config"
)

// NewPostgresDB opens a PostgreSQL connection pool and verifies it.
func NewPostgresDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.Database.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxConns)
	}
	if cfg.Database.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.Database.MaxIdle)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Close closes the pool if it was opened.
func Close(db *sql.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}
