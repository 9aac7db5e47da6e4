package artifacts

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

func (r *SQLiteRepository) Upsert(ctx context.Context, row *Row) error {
	query := ` INSERT INTO artifacts (kind, name, created_at, mime, payload_enc)
			values (?, ?, ?, ?, ?)
			ON CONFLICT(kind, name) DO UPDATE SET mime = excluded.mime,
				payload_enc = excluded.payload_enc
	`
	_, err := r.db.ExecContext(ctx, query,
		row.Kind, row.Name, row.CreatedAt, nullable(row.Mime), row.PayloadEnc)
	if err != nil {
		return fmt.Errorf("failed to upsert artifact: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, kind, name string) (*Row, error) {
	query := `SELECT kind, name, created_at, mime, payload_enc FROM artifacts WHERE kind=? AND name=?`
	row := r.db.QueryRowContext(ctx, query, kind, name)

	var (
		out  Row
		mime sql.NullString
	)
	err := row.Scan(&out.Kind, &out.Name, &out.CreatedAt, &mime, &out.PayloadEnc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact: %w", err)
	}
	out.Mime = mime.String
	return &out, nil
}

func (r *SQLiteRepository) ListNames(ctx context.Context, kind string) ([]string, error) {
	query := `SELECT name FROM artifacts WHERE kind=? ORDER BY created_at DESC, name ASC`
	rows, err := r.db.QueryContext(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, kind, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM artifacts WHERE kind=? AND name=?`, kind, name)
	if err != nil {
		return fmt.Errorf("failed to delete artifact: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
