// Package storage provides key-value backends for the persisted task blob.
//
// A backend holds opaque byte values under string keys. The task store only
// ever uses a single key, rewriting its whole value on every mutation, so
// backends need no partial updates or transactions.
//
// # Backends
//
//   - "memory": process-local map, used by tests and throwaway sessions
//   - "file": one file per key under a data directory, replaced atomically
//   - "redis": GET/SET of the key on a Redis server
package storage
