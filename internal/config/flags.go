package config

import (
	"flag"
	"os"
	"time"

	"github.com/workvault/workvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   data directory (default from Config)
//	-t string   plaintext cache directory (default: OS temp dir)
//	-i int      archive cache TTL in seconds (default from Config)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-t", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.CacheDir, "t", cfg.CacheDir, "plaintext cache directory")
	ttl := fs.Int("i", int(cfg.ArchiveCacheTTL.Seconds()), "archive cache ttl (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ArchiveCacheTTL = time.Duration(*ttl) * time.Second
}
