// Package kv provides the durable key-value storage the account subsystem
// persists into. Values are opaque bytes; callers store JSON.
//
// Backends:
//   - MemoryRepository: process-local map, used in tests and as the inert
//     backend when durable storage is switched off.
//   - SQLite (modernc.org/sqlite) and PostgreSQL (pgx) via a single "kv"
//     table migrated with goose.
//   - Redis (go-redis) with an optional key prefix.
package kv

import "context"

// Repository is a string-keyed byte store.
//
// Get returns (nil, nil) when the key is absent. Delete of an absent key is
// not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
