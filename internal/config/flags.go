package config

import (
	"flag"
	"os"

	"github.com/toxidity-18/Veritas/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN of the record store
//	-k string   secret key for signing access tokens
//	-l string   path of the local SQLite cache
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-k", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN of the record store")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "secret key for signing access tokens")
	fs.StringVar(&cfg.LocalCachePath, "l", cfg.LocalCachePath, "path of the local SQLite cache")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
