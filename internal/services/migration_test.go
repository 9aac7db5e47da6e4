package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workvault/workvault/internal/models"
)

func writeLegacyPeopleFile(t *testing.T, e *testEnv, dir string, people []map[string]any) string {
	t.Helper()
	sec, err := e.sess.Security()
	require.NoError(t, err)

	raw, err := json.Marshal(people)
	require.NoError(t, err)
	enc, err := sec.EncryptBytes(raw)
	require.NoError(t, err)

	path := filepath.Join(dir, "people.enc")
	require.NoError(t, os.WriteFile(path, enc, 0o600))
	return path
}

func TestMigrator_ImportsLegacyData(t *testing.T) {
	e := setupEnv(t, "pw")
	ctx := context.Background()
	dir := t.TempDir()

	peopleFile := writeLegacyPeopleFile(t, e, dir, []map[string]any{
		{
			"uid":     "legacy-1",
			"Name":    "Ada Lovelace",
			"Branch":  "Salem",
			"Social":  "123-45-6789",
			"DOB":     "1990-01-01",
			"MVR":     "clear", // unknown field lands in Extra
			"Removed": false,
		},
	})

	weeklyDir := filepath.Join(dir, "tracker")
	require.NoError(t, os.MkdirAll(weeklyDir, 0o755))
	weekJSON, err := json.Marshal(map[string]models.DayEntry{
		"Friday": {Content: "orientation"},
	})
	require.NoError(t, err)
	weekPath := filepath.Join(weeklyDir, "Week_2025-01-10_to_2025-01-16.json")
	require.NoError(t, os.WriteFile(weekPath, weekJSON, 0o600))

	exportsDir := filepath.Join(dir, "exports")
	require.NoError(t, os.MkdirAll(exportsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(exportsDir, "roster.csv"), []byte("Name\nAda\n"), 0o600))

	paths := LegacyPaths{PeopleFile: peopleFile, WeeklyDir: weeklyDir, ExportsDir: exportsDir}
	m := NewLegacyMigrator(e.db, e.repos, e.sess, paths, e.logger())
	require.NoError(t, m.Run(ctx))

	// people imported with both partitions
	peopleSvc := NewPeopleService(e.db, e.repos, e.sess, e.logger())
	got, err := peopleSvc.Get(ctx, "legacy-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.Basic.Name)
	assert.Equal(t, "123-45-6789", got.Sensitive.SSN)
	assert.Equal(t, "clear", got.Extra["MVR"])

	// weekly file imported under its filename-derived bounds
	weeklySvc := NewWeeklyService(e.db, e.repos, e.sess, e.logger())
	week, err := weeklySvc.GetWeek(ctx, "2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-16", week.WeekEnd)
	assert.Equal(t, "orientation", week.Days["Friday"].Content)

	// export imported as an encrypted artifact
	artifactSvc := NewArtifactService(e.db, e.repos, e.sess, e.logger())
	data, err := artifactSvc.Get(ctx, models.ArtifactKindExport, "roster.csv")
	require.NoError(t, err)
	assert.Equal(t, []byte("Name\nAda\n"), data)

	// migration gate set
	v, err := e.repos.Meta.Get(ctx, "schema_version")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	// legacy sources never touched
	_, err = os.Stat(peopleFile)
	assert.NoError(t, err)
	_, err = os.Stat(weekPath)
	assert.NoError(t, err)
}

func TestMigrator_IdempotentAfterFirstRun(t *testing.T) {
	e := setupEnv(t, "pw")
	ctx := context.Background()

	m := NewLegacyMigrator(e.db, e.repos, e.sess, LegacyPaths{}, e.logger())
	require.NoError(t, m.Run(ctx))

	// a legacy file appearing after migration must not be imported
	dir := t.TempDir()
	peopleFile := writeLegacyPeopleFile(t, e, dir, []map[string]any{
		{"uid": "late-1", "Name": "Late Arrival"},
	})
	m2 := NewLegacyMigrator(e.db, e.repos, e.sess, LegacyPaths{PeopleFile: peopleFile}, e.logger())
	require.NoError(t, m2.Run(ctx))

	var n int
	require.NoError(t, e.db.QueryRow(`SELECT COUNT(*) FROM people`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestMigrator_BestEffortStepFailureStillMarksDone(t *testing.T) {
	e := setupEnv(t, "pw")
	ctx := context.Background()
	dir := t.TempDir()

	// not a valid encrypted blob: the people step fails, migration proceeds
	badFile := filepath.Join(dir, "people.enc")
	require.NoError(t, os.WriteFile(badFile, []byte("garbage"), 0o600))

	m := NewLegacyMigrator(e.db, e.repos, e.sess, LegacyPaths{PeopleFile: badFile}, e.logger())
	require.NoError(t, m.Run(ctx))

	v, err := e.repos.Meta.Get(ctx, "schema_version")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestMigrator_WeekFilenameStemFallback(t *testing.T) {
	e := setupEnv(t, "pw")
	ctx := context.Background()

	weeklyDir := t.TempDir()
	weekJSON, err := json.Marshal(map[string]string{"Monday": "notes"})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(weeklyDir, "oddly_named.json"), weekJSON, 0o600))

	m := NewLegacyMigrator(e.db, e.repos, e.sess, LegacyPaths{WeeklyDir: weeklyDir}, e.logger())
	require.NoError(t, m.Run(ctx))

	weeklySvc := NewWeeklyService(e.db, e.repos, e.sess, e.logger())
	week, err := weeklySvc.GetWeek(ctx, "oddly_named")
	require.NoError(t, err)
	assert.Equal(t, "oddly_named", week.WeekEnd)
	assert.Equal(t, "notes", week.Days["Monday"].Content)
}
