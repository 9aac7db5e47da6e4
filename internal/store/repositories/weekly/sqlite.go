package weekly

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
	query := ` INSERT INTO weekly_tracker (week_start, week_end, updated_at, payload_enc)
			values (?, ?, ?, ?)
			ON CONFLICT(week_start) DO UPDATE SET week_end = excluded.week_end,
				updated_at = excluded.updated_at,
				payload_enc = excluded.payload_enc
	`
	_, err := r.db.ExecContext(ctx, query,
		row.WeekStart, row.WeekEnd, row.UpdatedAt, row.PayloadEnc)
	if err != nil {
		return fmt.Errorf("failed to upsert week: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, weekStart string) (*Row, error) {
	query := `SELECT week_start, week_end, updated_at, payload_enc FROM weekly_tracker WHERE week_start=?`
	row := r.db.QueryRowContext(ctx, query, weekStart)

	var out Row
	err := row.Scan(&out.WeekStart, &out.WeekEnd, &out.UpdatedAt, &out.PayloadEnc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get week: %w", err)
	}
	return &out, nil
}

func (r *SQLiteRepository) ListWeekStarts(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT week_start FROM weekly_tracker ORDER BY week_start DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list weeks: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var ws string
		if err := rows.Scan(&ws); err != nil {
			return nil, err
		}
		result = append(result, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
