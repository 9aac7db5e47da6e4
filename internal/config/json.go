package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/workvault/workvault/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. The TTL is
// given in seconds.
type JsonConfig struct {
	DataDir            string `json:"data_dir"`
	CacheDir           string `json:"cache_dir"`
	ArchiveCacheTTLSec int    `json:"archive_cache_ttl_sec"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags; when absent, nothing is loaded.
// Panics on read or unmarshal errors (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.CacheDir != "" {
		cfg.CacheDir = jc.CacheDir
	}
	if jc.ArchiveCacheTTLSec > 0 {
		cfg.ArchiveCacheTTL = time.Duration(jc.ArchiveCacheTTLSec) * time.Second
	}
}
