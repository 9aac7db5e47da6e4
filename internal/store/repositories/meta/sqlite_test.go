package meta

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workvault/workvault/internal/common"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE meta (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func TestSetGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "schema_version", "1"))

	got, err := r.Get(ctx, "schema_version")
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	require.NoError(t, r.Set(ctx, "schema_version", "2"))
	got, err = r.Get(ctx, "schema_version")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
}

func TestGet_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDelete(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", "v"))
	require.NoError(t, r.Delete(ctx, "k"))

	_, err := r.Get(ctx, "k")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
