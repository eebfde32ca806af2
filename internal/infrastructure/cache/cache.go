package cache

import (
	"context"
	"time"
)

// Cache stores JSON-encoded values with a TTL
type Cache interface {
	// GetJSON decodes the cached value into dst and reports whether it was found
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
