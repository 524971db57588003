// Package cache stores rendered artifacts keyed by content hashes.
//
// The server caches SVG renderings of annotation sets; the CLI uses the
// same cache for `a9s render`. Three backends are available:
//   - [NullCache]: caching disabled
//   - [FileCache]: JSON entries sharded by key hash under a directory
//   - [RedisCache]: shared cache for multi-instance servers
//
// Keys come from [RenderKey], which hashes everything that affects the
// output, so entries never need explicit invalidation.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/a9s/pkg/observability"
)

// Cache is a byte-oriented key/value cache with optional expiry.
type Cache interface {
	// Get returns the value and true on a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources.
	Close() error
}

// Observed wraps c so that hits, misses and writes are reported to
// observability.Cache(). The key type is the key prefix before the first
// colon.
func Observed(c Cache) Cache {
	return &observed{next: c}
}

type observed struct {
	next Cache
}

func keyType(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "unknown"
}

func (c *observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.next.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, hit, err
}

func (c *observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.next.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	}
	return err
}

func (c *observed) Delete(ctx context.Context, key string) error { return c.next.Delete(ctx, key) }
func (c *observed) Close() error                                 { return c.next.Close() }
