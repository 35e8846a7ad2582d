package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/minisector-dominance/pkg/cache/sqlite"
	"github.com/mpapenbr/minisector-dominance/pkg/config"
)

func useCacheDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "cache")
	saved := []any{config.CacheDir, config.CacheDB, config.NoCache, config.LogLevel}
	t.Cleanup(func() {
		config.CacheDir = saved[0].(string)
		config.CacheDB = saved[1].(string)
		config.NoCache = saved[2].(bool)
		config.LogLevel = saved[3].(string)
	})
	config.CacheDir = dir
	config.CacheDB = ""
	config.NoCache = false
	config.LogLevel = "error"
	return dir
}

func TestMigrate(t *testing.T) {
	dir := useCacheDir(t)
	require.NoError(t, startMigration(context.Background()))
	_, err := os.Stat(sqlite.Path(dir))
	assert.NoError(t, err)
	// applying it again is fine
	assert.NoError(t, startMigration(context.Background()))
}

func TestClear(t *testing.T) {
	dir := useCacheDir(t)
	ctx := context.Background()

	store, err := sqlite.Open(ctx, dir)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "a", []byte("1")))
	require.NoError(t, store.Put(ctx, "b", []byte("2")))
	require.NoError(t, store.Close())

	var out bytes.Buffer
	require.NoError(t, clearCache(ctx, &out))
	assert.Equal(t, "2 cached responses removed\n", out.String())

	out.Reset()
	require.NoError(t, clearCache(ctx, &out))
	assert.Equal(t, "0 cached responses removed\n", out.String())
}
