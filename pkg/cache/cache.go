// Package cache provides content-addressed caching for planning results
// and rendered artifacts.
//
// Plans are pure functions of the technology document and the planning
// options, so cache keys are derived from a SHA-256 hash of the technology
// bytes plus the option values. Three backends are provided:
//   - FileCache: directory-backed, for CLI usage
//   - RedisCache: shared backend for service deployments
//   - NullCache: disables caching
package cache

import (
	"context"
	"time"
)

// Default TTLs per cached artifact kind. Plans are deterministic, so the
// TTLs exist only to bound disk/keyspace growth.
const (
	TTLPlan     = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is the storage backend interface.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
