package simulation

import (
	"context"
	"time"
)

// Cache is the storage the simulation pipeline uses for reality timelines,
// stored results and per-business run history. Implementations are injected;
// the pipeline never reaches for a shared client.
type Cache interface {
	// Get returns the value for key, reporting whether it was present
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// SetWithTTL stores value under key, expiring it after ttl
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// PushTrim prepends value to the list at key and trims it to max entries,
	// newest first
	PushTrim(ctx context.Context, key string, value string, max int) error

	// List returns the list at key, newest first; missing keys yield an
	// empty list
	List(ctx context.Context, key string) ([]string, error)
}
