package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/workvault/workvault/internal/logging"
	"github.com/workvault/workvault/internal/session"
	"github.com/workvault/workvault/internal/store"
)

type testEnv struct {
	db      *sql.DB
	repos   *store.Repositories
	manager *session.Manager
	sess    *session.Session
}

func setupEnv(t *testing.T, password string) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, repos, err := store.InitDatabase(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	manager := session.NewManager(t.TempDir(), logging.NewNopLogger())
	sess, err := manager.Setup(password)
	require.NoError(t, err)

	return &testEnv{db: db, repos: repos, manager: manager, sess: sess}
}

func (e *testEnv) logger() logging.Logger {
	return logging.NewNopLogger()
}
