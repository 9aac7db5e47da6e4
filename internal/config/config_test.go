package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	assert.NotEmpty(t, cfg.DataDir)
	assert.Empty(t, cfg.CacheDir)
	assert.Equal(t, 10*time.Minute, cfg.ArchiveCacheTTL)

	assert.Equal(t, filepath.Join(cfg.DataDir, "workvault.db"), cfg.DatabasePath())
	assert.Equal(t, filepath.Join(cfg.DataDir, "WeeklyTracker"), cfg.LegacyWeeklyDir())
}

func TestParseJson(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"data_dir":"/srv/wv","archive_cache_ttl_sec":60}`), 0o600))

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"cmd", "-c", path}

	var cfg Config
	cfg.LoadDefaults()
	parseJson(&cfg)

	assert.Equal(t, "/srv/wv", cfg.DataDir)
	assert.Equal(t, time.Minute, cfg.ArchiveCacheTTL)
	// unset fields keep their defaults
	assert.Empty(t, cfg.CacheDir)
}

func TestParseFlags(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"cmd", "-d", "/srv/wv2", "-i", "30"}

	var cfg Config
	cfg.LoadDefaults()
	parseFlags(&cfg)

	assert.Equal(t, "/srv/wv2", cfg.DataDir)
	assert.Equal(t, 30*time.Second, cfg.ArchiveCacheTTL)
}
