// Package cache provides byte-oriented storage backends for analysis reports
// and rendered artifacts.
//
// Every backend implements [Cache]. The in-process LRU in package analysis
// sits in front of one of these and consults it only after a miss, so the
// backends here act as a shared or persistent second tier:
//
//   - [FileCache]: entries as JSON files under a directory (CLI default)
//   - [RedisCache]: shared store for several server replicas
//   - [MongoCache]: persistent store with a TTL index
//   - [NullCache]: caching disabled
//
// Keys are built by a [Keyer] so that every caller derives the same key for
// the same fingerprint and options.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store with per-entry expiration.
//
// Get reports a miss as (nil, false, nil); only backend failures are
// returned as errors. A ttl of zero or less means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Default TTLs by entry kind.
const (
	// TTLReport applies to analysis reports. Reports are keyed by content
	// fingerprint and never go stale, so the TTL only bounds disk usage.
	TTLReport = 7 * 24 * time.Hour

	// TTLArtifact applies to rendered DOT and SVG output.
	TTLArtifact = 24 * time.Hour
)
