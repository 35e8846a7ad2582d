package loadercache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/minisector-dominance/pkg/utils/cache"
)

func countingLoader(calls *int) LoaderFunc[string, string] {
	return func(_ context.Context, key string) (*string, error) {
		*calls++
		if key == "bad" {
			return nil, errors.New("boom")
		}
		ret := "value-" + key
		return &ret, nil
	}
}

func TestLoaderCache_Get(t *testing.T) {
	calls := 0
	c := New(WithLoader(countingLoader(&calls)))
	ctx := context.Background()

	v, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "value-a", *v)
	_, err = c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, err = c.Get(ctx, "bad")
	assert.Error(t, err)
	_, err = c.Get(ctx, "bad")
	assert.Error(t, err)
	assert.Equal(t, 3, calls, "errors are not cached")

	c.Invalidate(ctx, "a")
	_, err = c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 4, calls)

	assert.Equal(t, 1, c.InvalidateAll(ctx))
}

func TestLoaderCache_Expiration(t *testing.T) {
	calls := 0
	c := New(
		WithLoader(countingLoader(&calls)),
		WithExpiration[string, string](time.Nanosecond))
	ctx := context.Background()
	_, err := c.Get(ctx, "a")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestLoaderCache_NoLoader(t *testing.T) {
	c := New[string, string]()
	_, err := c.Get(context.Background(), "a")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}
