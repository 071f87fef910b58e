package storage

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Store is a minimal key-value store.
type Store interface {
	// Get returns the value stored under key. The boolean reports whether
	// the key exists; a missing key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Options configures Open.
type Options struct {
	// DataDir is the directory used by the file backend.
	DataDir string
	// RedisAddr is the host:port of the Redis server.
	RedisAddr string
	// RedisDB selects the Redis logical database.
	RedisDB int
}

// Open creates the named backend.
func Open(ctx context.Context, backend string, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendMemory:
		return NewMemoryStore(), nil
	case "", BackendFile:
		return NewFileStore(opts.DataDir)
	case BackendRedis:
		return NewRedisStore(ctx, opts.RedisAddr, opts.RedisDB)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (expected memory|file|redis)", backend)
	}
}
