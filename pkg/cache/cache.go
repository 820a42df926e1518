// Package cache stores rendered dot plot artifacts between runs.
//
// A [Cache] maps string keys to byte payloads with an optional TTL. Three
// backends are provided:
//
//   - [FileCache]: one JSON entry per key under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (HTTP server)
//   - [NullCache]: stores nothing (--no-cache)
//
// Keys are built by a [Keyer] from a content hash of the data view and
// settings, so an unchanged input never re-renders.
package cache

import (
	"context"
	"time"
)

// TTLs for cached payloads.
const (
	// TTLArtifact bounds how long a rendered document is reused.
	TTLArtifact = 7 * 24 * time.Hour

	// TTLRender bounds how long a render stays retrievable by id.
	TTLRender = 24 * time.Hour
)

// Cache is a byte store keyed by string.
type Cache interface {
	// Get returns the payload stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}
