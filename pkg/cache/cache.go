// Package cache provides the response cache used by the registry clients.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: JSON entries under the user cache directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for the preview server
//   - [NullCache]: never stores anything (--no-cache)
//
// Entries carry their own TTL. An expired entry reads as a miss.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads keyed by string.
type Cache interface {
	// Get returns the value for key. The bool reports a hit; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// NullCache never stores anything. Every Get is a miss.
type NullCache struct{}

// NewNullCache returns the backend used with --no-cache.
func NewNullCache() Cache { return &NullCache{} }

func (c *NullCache) Get(context.Context, string) ([]byte, bool, error)          { return nil, false, nil }
func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (c *NullCache) Delete(context.Context, string) error                     { return nil }
func (c *NullCache) Clear(context.Context) (int, error)                       { return 0, nil }
func (c *NullCache) Close() error                                             { return nil }

var (
	_ Cache   = (*NullCache)(nil)
	_ Clearer = (*NullCache)(nil)
	_ Clearer = (*FileCache)(nil)
	_ Clearer = (*RedisCache)(nil)
)
