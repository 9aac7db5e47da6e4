package artifacts

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
CREATE TABLE artifacts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  kind TEXT NOT NULL,
  name TEXT NOT NULL,
  created_at TEXT NOT NULL,
  mime TEXT,
  payload_enc BLOB NOT NULL,
  UNIQUE(kind, name)
);
`)
	require.NoError(t, err)

	return db
}

func TestUpsert_KeepsCreatedAt(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, &Row{Kind: "archive", Name: "Archive_2025_01.zip", CreatedAt: "t1", Mime: "application/zip", PayloadEnc: []byte("v1")}))
	require.NoError(t, r.Upsert(ctx, &Row{Kind: "archive", Name: "Archive_2025_01.zip", CreatedAt: "t2", Mime: "application/zip", PayloadEnc: []byte("v2")}))

	got, err := r.Get(ctx, "archive", "Archive_2025_01.zip")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.CreatedAt)
	assert.Equal(t, []byte("v2"), got.PayloadEnc)
	assert.Equal(t, "application/zip", got.Mime)
}

func TestGet_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.Get(context.Background(), "export", "missing.csv")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListNames_NewestFirstPerKind(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, &Row{Kind: "export", Name: "old.csv", CreatedAt: "2025-01-01 00:00:00", PayloadEnc: []byte("x")}))
	require.NoError(t, r.Upsert(ctx, &Row{Kind: "export", Name: "new.csv", CreatedAt: "2025-02-01 00:00:00", PayloadEnc: []byte("x")}))
	require.NoError(t, r.Upsert(ctx, &Row{Kind: "archive", Name: "Archive_2025_01.zip", CreatedAt: "2025-03-01 00:00:00", PayloadEnc: []byte("x")}))

	names, err := r.ListNames(ctx, "export")
	require.NoError(t, err)
	assert.Equal(t, []string{"new.csv", "old.csv"}, names)
}

func TestDelete(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, &Row{Kind: "export", Name: "a.csv", CreatedAt: "t", PayloadEnc: []byte("x")}))
	require.NoError(t, r.Delete(ctx, "export", "a.csv"))
	assert.ErrorIs(t, r.Delete(ctx, "export", "a.csv"), common.ErrNotFound)
}
