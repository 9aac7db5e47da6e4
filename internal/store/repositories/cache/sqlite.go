package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/workvault/workvault/internal/common"
	"github.com/workvault/workvault/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (*Row, error) {
	query := `SELECT key, expires_at, value_enc FROM secure_cache WHERE key=?`
	row := r.db.QueryRowContext(ctx, query, key)

	var out Row
	err := row.Scan(&out.Key, &out.ExpiresAt, &out.ValueEnc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache row: %w", err)
	}
	return &out, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, row *Row) error {
	query := ` INSERT INTO secure_cache (key, expires_at, value_enc)
			values (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET expires_at = excluded.expires_at,
				value_enc = excluded.value_enc
	`
	_, err := r.db.ExecContext(ctx, query, row.Key, row.ExpiresAt, row.ValueEnc)
	if err != nil {
		return fmt.Errorf("failed to set cache row: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM secure_cache WHERE key=?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete cache row: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpired(ctx context.Context, now int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM secure_cache WHERE expires_at <= ?`, now)
	if err != nil {
		return fmt.Errorf("failed to delete expired cache rows: %w", err)
	}
	return nil
}
