// Package store opens the local SQLite database and wires the per-table
// repositories together.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/workvault/workvault/internal/store/migrations"
	"github.com/workvault/workvault/internal/store/repositories/artifacts"
	"github.com/workvault/workvault/internal/store/repositories/cache"
	"github.com/workvault/workvault/internal/store/repositories/meta"
	"github.com/workvault/workvault/internal/store/repositories/people"
	"github.com/workvault/workvault/internal/store/repositories/todos"
	"github.com/workvault/workvault/internal/store/repositories/weekly"
)

// Repositories bundles the table-level repositories sharing one database.
type Repositories struct {
	Meta     meta.Repository
	People   people.Repository
	Artifact artifacts.Repository
	Weekly   weekly.Repository
	Cache    cache.Repository
	Todo     todos.Repository
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if necessary) the database at dsn, applies
// migrations, and returns the handle. The store is single-writer and
// transaction-per-call, so the pool is pinned to one connection; this also
// keeps the foreign_keys pragma in force for every statement.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

// InitDatabase opens dsn and returns the repositories bound to it.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, *Repositories, error) {
	db, err := Open(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}

	repos := &Repositories{
		Meta:     meta.NewSQLiteRepository(db),
		People:   people.NewSQLiteRepository(db),
		Artifact: artifacts.NewSQLiteRepository(db),
		Weekly:   weekly.NewSQLiteRepository(db),
		Cache:    cache.NewSQLiteRepository(db),
		Todo:     todos.NewSQLiteRepository(db),
	}
	return db, repos, nil
}
