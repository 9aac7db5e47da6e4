package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workvault/workvault/internal/common"
)

func TestTodos_AddAndList(t *testing.T) {
	e := setupEnv(t, "pw")
	svc := NewTodoService(e.db, e.repos, e.sess, e.logger())
	ctx := context.Background()

	id, err := svc.Add(ctx, "order badge")
	require.NoError(t, err)
	require.Positive(t, id)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "order badge", list[0].Text)
	assert.False(t, list[0].Completed)
}

func TestTodos_CompleteAppendsToWeeklyTracker(t *testing.T) {
	e := setupEnv(t, "pw")
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC) // Wednesday

	todoSvc := NewTodoService(e.db, e.repos, e.sess, e.logger()).(*todoService)
	todoSvc.now = func() time.Time { return now }
	weeklySvc := NewWeeklyService(e.db, e.repos, e.sess, e.logger())
	ctx := context.Background()

	id, err := todoSvc.Add(ctx, "order badge")
	require.NoError(t, err)
	require.NoError(t, todoSvc.Complete(ctx, id))

	list, err := todoSvc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Completed)
	assert.NotEmpty(t, list[0].CompletedAt)

	w, err := weeklySvc.GetWeek(ctx, "2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, "[TODO] order badge", w.Days["Wednesday"].Content)
}

func TestTodos_Complete_MissingTodoLeavesTrackerUntouched(t *testing.T) {
	e := setupEnv(t, "pw")
	svc := NewTodoService(e.db, e.repos, e.sess, e.logger())
	ctx := context.Background()

	err := svc.Complete(ctx, 42)
	assert.ErrorIs(t, err, common.ErrNotFound)

	var n int
	require.NoError(t, e.db.QueryRow(`SELECT COUNT(*) FROM weekly_tracker`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestTodos_Delete(t *testing.T) {
	e := setupEnv(t, "pw")
	svc := NewTodoService(e.db, e.repos, e.sess, e.logger())
	ctx := context.Background()

	id, err := svc.Add(ctx, "x")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, id))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
