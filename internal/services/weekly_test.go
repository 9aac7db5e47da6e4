package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workvault/workvault/internal/common"
	"github.com/workvault/workvault/internal/models"
)

func TestWeekly_UpsertAndGet(t *testing.T) {
	e := setupEnv(t, "pw")
	svc := NewWeeklyService(e.db, e.repos, e.sess, e.logger())
	ctx := context.Background()

	w := models.NewWeek("2025-01-10", "2025-01-16")
	w.AppendToDay("Friday", "onboarding session")
	require.NoError(t, svc.UpsertWeek(ctx, w))

	got, err := svc.GetWeek(ctx, "2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-16", got.WeekEnd)
	assert.Equal(t, "onboarding session", got.Days["Friday"].Content)
	// Normalize guarantees every weekday key
	assert.Len(t, got.Days, len(models.WeekdayNames))
}

func TestWeekly_GetWeek_NotFound(t *testing.T) {
	e := setupEnv(t, "pw")
	svc := NewWeeklyService(e.db, e.repos, e.sess, e.logger())

	_, err := svc.GetWeek(context.Background(), "2025-01-10")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestWeekly_CurrentWeek_EmptyWhenUnstored(t *testing.T) {
	e := setupEnv(t, "pw")
	svc := NewWeeklyService(e.db, e.repos, e.sess, e.logger()).(*weeklyService)
	// Wednesday 2025-01-15 belongs to the week starting Friday 2025-01-10
	svc.now = func() time.Time { return time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC) }

	w, err := svc.CurrentWeek(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", w.WeekStart)
	assert.Equal(t, "2025-01-16", w.WeekEnd)
	assert.Empty(t, w.Days["Wednesday"].Content)
}

func TestWeekly_AppendToToday(t *testing.T) {
	e := setupEnv(t, "pw")
	svc := NewWeeklyService(e.db, e.repos, e.sess, e.logger()).(*weeklyService)
	svc.now = func() time.Time { return time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	require.NoError(t, svc.AppendToToday(ctx, "badge issued"))
	require.NoError(t, svc.AppendToToday(ctx, "laptop handed over"))

	w, err := svc.GetWeek(ctx, "2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, "badge issued\nlaptop handed over", w.Days["Wednesday"].Content)

	starts, err := svc.ListWeeks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-10"}, starts)
}
