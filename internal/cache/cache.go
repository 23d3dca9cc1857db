package cache

import (
	"context"
	"time"
)

// Cache is the interface for caching rendered QR payloads.
// Link lookups are never cached: every redirect reads the store fresh
// so a target update takes effect immediately. A QR image only encodes
// the short URL, which never changes for a live code, so caching it is
// safe across target updates.
type Cache interface {
	// Set stores a key-value pair with expiration.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Get retrieves a value by key. A missing key returns ("", nil).
	Get(ctx context.Context, key string) (string, error)

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Exists checks if a key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Close closes the underlying connection.
	Close() error
}
