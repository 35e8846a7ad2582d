package cache

import (
	"context"

	"github.com/mpapenbr/minisector-dominance/pkg/utils"
	"github.com/mpapenbr/minisector-dominance/pkg/utils/cache"
)

// Store persists raw responses of the telemetry source.
// Get returns cache.ErrCacheMiss for unknown keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	// Clear removes all entries and returns the number of removed entries.
	Clear(ctx context.Context) (int, error)
	Close() error
}

// Key derives the store key of a request url.
func Key(url string) string {
	return utils.HashKey(url)
}

type noopStore struct{}

// NewNoop returns a Store that never holds anything.
func NewNoop() Store {
	return noopStore{}
}

func (noopStore) Get(context.Context, string) ([]byte, error) {
	return nil, cache.ErrCacheMiss
}

func (noopStore) Put(context.Context, string, []byte) error {
	return nil
}

func (noopStore) Clear(context.Context) (int, error) {
	return 0, nil
}

func (noopStore) Close() error {
	return nil
}
