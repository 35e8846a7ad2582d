//nolint:errcheck // testsetup
package tcpostgres

import (
	"context"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mpapenbr/minisector-dominance/pkg/db/migrate"
	database "github.com/mpapenbr/minisector-dominance/pkg/db/postgres"
)

// SetupTestDb starts (or reuses) a postgres container with the cache schema.
func SetupTestDb(ctx context.Context) (*pgxpool.Pool, error) {
	container, err := StartPostgres(ctx,
		WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
		WithName("minisector-dominance-test"),
	)
	if err != nil {
		return nil, err
	}
	dbURL, err := container.ConnectionString(ctx)
	if err != nil {
		return nil, err
	}
	return setup(ctx, dbURL)
}

// SetupExternalTestDb uses the database referenced by TESTDB_URL.
func SetupExternalTestDb(ctx context.Context) (*pgxpool.Pool, error) {
	return setup(ctx, os.Getenv("TESTDB_URL"))
}

func setup(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	if err := migrate.MigrateDb(migrate.Postgres, dbURL); err != nil {
		return nil, err
	}
	return database.InitWithURL(ctx, dbURL)
}

func ClearCacheTable(pool *pgxpool.Pool) {
	pool.Exec(context.Background(), "delete from http_cache")
}
