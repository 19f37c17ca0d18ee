package cache

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dkarlovs/habitsync/internal/migrations"
	"github.com/pressly/goose/v3"
)

// Stores bundles the SQLite-backed store implementations sharing one
// database handle.
type Stores struct {
	Habits    HabitStore
	Templates TemplateStore
	Metadata  MetadataStore
	DB        *sql.DB
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if necessary) the cache database at dsn, migrates it
// and returns the stores bound to it.
func Open(ctx context.Context, dsn string) (*Stores, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	// SQLite allows a single writer; with one connection concurrent writers
	// queue here instead of failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate cache database: %w", err)
	}

	return &Stores{
		Habits:    NewSQLiteHabitStore(db),
		Templates: NewSQLiteTemplateStore(db),
		Metadata:  NewSQLiteMetadataStore(db),
		DB:        db,
	}, nil
}

// Close closes the underlying database handle.
func (s *Stores) Close() error {
	return s.DB.Close()
}
