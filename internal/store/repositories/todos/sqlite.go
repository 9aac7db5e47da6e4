package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/workvault/workvault/internal/common"
	"github.com/workvault/workvault/internal/dbx"
	"github.com/workvault/workvault/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, text, createdAt string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO todos (text, completed, created_at) VALUES (?, 0, ?)`, text, createdAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert todo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get todo id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Todo, error) {
	query := `SELECT id, text, completed, created_at, completed_at FROM todos ORDER BY completed ASC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	var result []models.Todo
	for rows.Next() {
		todo, err := scanTodo(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *todo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*models.Todo, error) {
	query := `SELECT id, text, completed, created_at, completed_at FROM todos WHERE id=?`
	todo, err := scanTodo(r.db.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}
	return todo, nil
}

func (r *SQLiteRepository) MarkCompleted(ctx context.Context, id int64, completedAt string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE todos SET completed=1, completed_at=? WHERE id=?`, completedAt, id)
	if err != nil {
		return fmt.Errorf("failed to complete todo: %w", err)
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

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
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

func scanTodo(scan func(dest ...any) error) (*models.Todo, error) {
	var (
		todo        models.Todo
		completed   int
		completedAt sql.NullString
	)
	if err := scan(&todo.ID, &todo.Text, &completed, &todo.CreatedAt, &completedAt); err != nil {
		return nil, err
	}
	todo.Completed = completed != 0
	todo.CompletedAt = completedAt.String
	return &todo, nil
}
