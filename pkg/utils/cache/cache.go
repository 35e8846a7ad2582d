package cache

import (
	"context"
	"errors"
)

// based on github.com/kittpat1413/go-common/framework/cache/cache.go

var ErrCacheMiss = errors.New("cache miss")

// Cache holds values of type V by key.
// Implementations must be safe for concurrent use.
type Cache[K comparable, V any] interface {
	Get(ctx context.Context, key K) (*V, error)
	Invalidate(ctx context.Context, key K)
	// InvalidateAll removes all entries and returns how many were removed.
	InvalidateAll(ctx context.Context) int
}
