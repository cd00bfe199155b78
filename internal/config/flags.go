package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/storefront/internal/flagx"
)

// parseFlags overlays cfg with command-line flags:
//
//	-s string   storage backend (memory, sqlite, postgres, redis, none)
//	-d string   sqlite path or postgres DSN, depending on -s
//	-r string   redis address
//	-u string   snapshot URL
//	-p string   password hasher (plain, bcrypt, argon2)
//	-l string   log format (console, text, json)
//	-t duration snapshot fetch timeout
//
// Other flags on the command line are ignored.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.Select(args, flagx.Known{Values: []string{"-s", "-d", "-r", "-u", "-p", "-l", "-t"}})

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.StorageBackend, "s", cfg.StorageBackend, "storage backend")
	dsn := fs.String("d", "", "sqlite path or postgres dsn")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address")
	fs.StringVar(&cfg.SnapshotURL, "u", cfg.SnapshotURL, "snapshot url")
	fs.StringVar(&cfg.Hasher, "p", cfg.Hasher, "password hasher")
	fs.StringVar(&cfg.LogFormat, "l", cfg.LogFormat, "log format")
	fs.DurationVar(&cfg.FetchTimeout, "t", cfg.FetchTimeout, "snapshot fetch timeout")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *dsn != "" {
		if cfg.StorageBackend == "postgres" {
			cfg.PostgresDSN = *dsn
		} else {
			cfg.SQLitePath = *dsn
		}
	}
	return nil
}
