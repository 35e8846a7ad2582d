package testdb

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	tcpg "github.com/mpapenbr/minisector-dominance/testsupport/tcpostgres"
)

// InitTestDb returns a pool on an empty cache table.
// The test is skipped in short mode or if no database can be provided.
func InitTestDb(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	var (
		pool *pgxpool.Pool
		err  error
	)
	ctx := context.Background()
	if os.Getenv("TESTDB_URL") != "" {
		pool, err = tcpg.SetupExternalTestDb(ctx)
	} else {
		pool, err = tcpg.SetupTestDb(ctx)
	}
	if err != nil {
		t.Skipf("no test database available: %v", err)
	}
	tcpg.ClearCacheTable(pool)
	t.Cleanup(pool.Close)
	return pool
}
