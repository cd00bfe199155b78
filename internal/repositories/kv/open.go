package kv

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/common"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"

	// BackendNone runs the subsystem inertly: reads are empty, writes vanish.
	BackendNone = "none"
)

// Options selects and configures a backend for Open.
type Options struct {
	Backend       string
	SQLitePath    string
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var nopCloser = closerFunc(func() error { return nil })

// Open builds the Repository named by opts.Backend. The returned Closer
// releases the underlying connection.
func Open(ctx context.Context, opts Options) (Repository, io.Closer, error) {
	switch strings.ToLower(opts.Backend) {
	case BackendMemory, BackendNone, "":
		return NewMemoryRepository(), nopCloser, nil

	case BackendSQLite:
		db, err := OpenSQLite(ctx, opts.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite init: %w", err)
		}
		return NewSQLiteRepository(db), db, nil

	case BackendPostgres:
		db, err := OpenPostgres(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres init: %w", err)
		}
		return NewPostgresRepository(db), db, nil

	case BackendRedis:
		c, err := OpenRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		if err != nil {
			return nil, nil, fmt.Errorf("redis init: %w", err)
		}
		return NewRedisRepository(c, opts.RedisPrefix), c, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", common.ErrUnknownBackend, opts.Backend)
	}
}

// Available reports whether backend persists anything at all.
func Available(backend string) bool {
	return !strings.EqualFold(backend, BackendNone)
}
