// Package cache provides pluggable byte caches for pipeline results.
//
// Three backends are available: a file cache for CLI usage, a Redis cache
// for server deployments, and a null cache that disables caching. All
// backends store opaque byte slices under string keys with an optional
// TTL; key construction lives in [Keyer] so the layered stages agree on
// what identifies a result.
package cache

import (
	"context"
	"time"
)

// Default TTLs per cached artifact class.
const (
	// DefaultRiskTTL bounds cached risk matrices. Risk results only
	// change with their inputs, so the TTL is generous.
	DefaultRiskTTL = 24 * time.Hour

	// DefaultLayoutTTL bounds cached layout results.
	DefaultLayoutTTL = 24 * time.Hour
)

// Cache is a byte store with TTL expiry.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss;
// errors are reserved for backend failures. A ttl of zero or less on Set
// means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
