package cache

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL applies to every entry; the core never needs a per-entry
// override.
const DefaultTTL = 3600 * time.Second

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: key not found")

// Backend is a string-keyed byte cache. Implementations return real errors;
// the read-through service is the one place that degrades cache failures to
// "absent" and logs them, so that policy is not duplicated per backend.
//
// Delete on a missing key is a no-op success for every backend.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
