package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/workvault/workvault/internal/dbx"
	"github.com/workvault/workvault/internal/logging"
	"github.com/workvault/workvault/internal/models"
	"github.com/workvault/workvault/internal/session"
	"github.com/workvault/workvault/internal/store"
	"github.com/workvault/workvault/internal/store/repositories/todos"
)

type TodoService interface {
	// Add creates an open todo and returns its id.
	Add(ctx context.Context, text string) (int64, error)

	// List returns all todos, open ones first.
	List(ctx context.Context) ([]models.Todo, error)

	// Complete marks a todo done and, in the same transaction, appends
	// "[TODO] <text>" to today's weekly tracker entry.
	Complete(ctx context.Context, id int64) error

	// Delete removes a todo.
	Delete(ctx context.Context, id int64) error
}

type todoService struct {
	db    *sql.DB
	repos *store.Repositories
	sess  *session.Session
	log   logging.Logger
	now   func() time.Time
}

func NewTodoService(db *sql.DB, repos *store.Repositories, sess *session.Session, log logging.Logger) TodoService {
	return &todoService{db: db, repos: repos, sess: sess, log: log, now: time.Now}
}

func (s *todoService) Add(ctx context.Context, text string) (int64, error) {
	var id int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		id, err = todos.NewSQLiteRepository(tx).Insert(ctx, text, s.now().UTC().Format(models.TimestampLayout))
		return err
	})
	return id, err
}

func (s *todoService) List(ctx context.Context) ([]models.Todo, error) {
	return s.repos.Todo.List(ctx)
}

func (s *todoService) Complete(ctx context.Context, id int64) error {
	sec, err := s.sess.Security()
	if err != nil {
		return err
	}
	now := s.now()
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := todos.NewSQLiteRepository(tx)
		todo, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := repo.MarkCompleted(ctx, id, now.UTC().Format(models.TimestampLayout)); err != nil {
			return err
		}
		return appendToToday(ctx, tx, sec, now, "[TODO] "+todo.Text)
	})
}

func (s *todoService) Delete(ctx context.Context, id int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return todos.NewSQLiteRepository(tx).Delete(ctx, id)
	})
}
