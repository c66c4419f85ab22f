package services

import (
	"context"
	"time"
)

// Cache is the read-through cache used by query-heavy endpoints. A nil Cache
// disables caching entirely; callers must tolerate both miss and error by
// falling back to the database.
type Cache interface {
	// Get unmarshals the cached payload into dest and reports whether the
	// key was present.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// ClearPattern removes every key matching the glob pattern.
	ClearPattern(ctx context.Context, pattern string) error
}
