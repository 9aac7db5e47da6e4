package people

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

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, row *Row) error {
	query := ` INSERT INTO people (uid, name, branch, removed, payload_enc, updated_at)
			values (?, ?, ?, ?, ?, ?)
			ON CONFLICT(uid) DO UPDATE SET name = excluded.name,
				branch = excluded.branch,
				removed = excluded.removed,
				payload_enc = excluded.payload_enc,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		row.UID, row.Name, row.Branch, boolToInt(row.Removed), row.PayloadEnc, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert person: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpsertSensitive(ctx context.Context, row *SensitiveRow) error {
	query := ` INSERT INTO sensitive (uid, payload_enc, created_at, updated_at)
			values (?, ?, ?, ?)
			ON CONFLICT(uid) DO UPDATE SET payload_enc = excluded.payload_enc,
				updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		row.UID, row.PayloadEnc, row.CreatedAt, row.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert sensitive row: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteSensitive(ctx context.Context, uid string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sensitive WHERE uid=?`, uid)
	if err != nil {
		return fmt.Errorf("failed to delete sensitive row: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) HasSensitive(ctx context.Context, uid string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM sensitive WHERE uid=?`, uid).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check sensitive row: %w", err)
	}
	return true, nil
}

const joinedSelect = `SELECT p.uid, p.name, p.branch, p.removed, p.payload_enc, p.updated_at, s.payload_enc
	FROM people p LEFT JOIN sensitive s ON s.uid = p.uid`

func (r *SQLiteRepository) Get(ctx context.Context, uid string) (*JoinedRow, error) {
	row := r.db.QueryRowContext(ctx, joinedSelect+` WHERE p.uid=?`, uid)

	j, err := scanJoined(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return j, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]JoinedRow, error) {
	// Empty names sort first under plain ASC ordering.
	rows, err := r.db.QueryContext(ctx, joinedSelect+` ORDER BY LOWER(COALESCE(p.name, '')) ASC, p.uid ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select people: %w", err)
	}
	defer rows.Close()

	var result []JoinedRow
	for rows.Next() {
		j, err := scanJoined(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, uid string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM people WHERE uid=?`, uid)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
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

func scanJoined(scan func(dest ...any) error) (*JoinedRow, error) {
	var (
		j       JoinedRow
		name    sql.NullString
		branch  sql.NullString
		removed int
	)
	if err := scan(&j.UID, &name, &branch, &removed, &j.PayloadEnc, &j.UpdatedAt, &j.SensitivePayloadEnc); err != nil {
		return nil, err
	}
	j.Name = name.String
	j.Branch = branch.String
	j.Removed = removed != 0
	return &j, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
