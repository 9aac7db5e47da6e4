package todos

import (
	"context"

	"github.com/workvault/workvault/internal/models"
)

// Repository describes persistence for the plaintext todo list.
type Repository interface {
	// Insert adds a new open todo and returns its id.
	Insert(ctx context.Context, text, createdAt string) (int64, error)

	// List returns all todos, open ones first, newest first within a group.
	List(ctx context.Context) ([]models.Todo, error)

	// Get returns one todo, or common.ErrNotFound.
	Get(ctx context.Context, id int64) (*models.Todo, error)

	// MarkCompleted flags a todo done; common.ErrNotFound when absent.
	MarkCompleted(ctx context.Context, id int64, completedAt string) error

	// Delete removes a todo; common.ErrNotFound when absent.
	Delete(ctx context.Context, id int64) error
}
