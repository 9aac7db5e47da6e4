// Package config holds runtime settings for the workvault CLI.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings.
//
// Fields:
//   - DataDir: directory holding the database, credential file, and legacy
//     import sources.
//   - CacheDir: directory for the plaintext cache tier; empty selects a
//     subdirectory of the OS temp dir.
//   - ArchiveCacheTTL: how long decrypted archive listings may be cached.
type Config struct {
	DataDir         string
	CacheDir        string
	ArchiveCacheTTL time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	c.DataDir = filepath.Join(home, "Documents", "Workvault")
	c.CacheDir = ""
	c.ArchiveCacheTTL = 10 * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// DatabasePath is the SQLite file inside DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "workvault.db")
}

// Legacy source locations, kept compatible with the pre-database layout.
func (c *Config) LegacyPeopleFile() string {
	return filepath.Join(c.DataDir, "workflow_data.json.enc")
}

func (c *Config) LegacyWeeklyDir() string {
	return filepath.Join(c.DataDir, "WeeklyTracker")
}

func (c *Config) LegacyArchiveDir() string {
	return filepath.Join(c.DataDir, "Archive")
}

func (c *Config) LegacyExportsDir() string {
	return filepath.Join(c.DataDir, "exports")
}
