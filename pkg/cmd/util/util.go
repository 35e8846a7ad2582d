package util

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mpapenbr/minisector-dominance/log"
	"github.com/mpapenbr/minisector-dominance/pkg/cache"
	"github.com/mpapenbr/minisector-dominance/pkg/cache/postgres"
	"github.com/mpapenbr/minisector-dominance/pkg/cache/sqlite"
	"github.com/mpapenbr/minisector-dominance/pkg/config"
	"github.com/mpapenbr/minisector-dominance/pkg/db/migrate"
	dbpostgres "github.com/mpapenbr/minisector-dominance/pkg/db/postgres"
	"github.com/mpapenbr/minisector-dominance/pkg/utils"
)

func ParseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// ParseDuration returns defaultVal if s is not a valid duration.
func ParseDuration(s string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Warn("Invalid duration value. Using default",
			log.String("value", s),
			log.Duration("default", defaultVal))
		return defaultVal
	}
	return d
}

// SetupLogger creates the logger according to the log flags and makes it the default.
func SetupLogger() (*log.Logger, error) {
	var logger *log.Logger
	switch config.LogFormat {
	case "json":
		logger = log.New(
			os.Stderr,
			ParseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	default:
		logger = log.DevLogger(
			os.Stderr,
			ParseLogLevel(config.LogLevel, log.InfoLevel),
			log.WithCaller(true),
			log.AddCallerSkip(1))
	}
	logger, err := logger.WithFilter(config.LogFilter)
	if err != nil {
		return nil, fmt.Errorf("invalid log filter %q: %w", config.LogFilter, err)
	}
	log.ResetDefault(logger)
	return logger, nil
}

// OpenStore opens the cache store selected by the cache flags.
// A postgres store is used if config.CacheDB is set, the sqlite file cache otherwise.
func OpenStore(ctx context.Context) (cache.Store, error) {
	if config.NoCache {
		log.Debug("cache disabled")
		return cache.NewNoop(), nil
	}
	if config.CacheDB == "" {
		log.Debug("using file cache", log.String("path", sqlite.Path(config.CacheDir)))
		return sqlite.Open(ctx, config.CacheDir)
	}
	if err := MigrateCacheDB(ctx); err != nil {
		return nil, err
	}
	pool, err := dbpostgres.InitWithURL(ctx, config.CacheDB,
		dbpostgres.WithTracer(
			dbpostgres.QueryTracer(log.Default().Named("sql"), config.EnableTelemetry)),
		dbpostgres.WithMaxConns(4))
	if err != nil {
		return nil, err
	}
	return postgres.NewWithPool(pool), nil
}

// MigrateCacheDB waits for the cache database and applies the schema.
// Without config.CacheDB the schema of the file cache is applied.
func MigrateCacheDB(ctx context.Context) error {
	if config.CacheDB == "" {
		if err := os.MkdirAll(config.CacheDir, 0o755); err != nil {
			return err
		}
		return migrate.MigrateDb(migrate.Sqlite, sqlite.Path(config.CacheDir))
	}
	timeout := ParseDuration(config.WaitForServices, 60*time.Second)
	addr := utils.ExtractFromDBURL(config.CacheDB)
	if err := utils.WaitForTCP(ctx, addr, timeout); err != nil {
		return fmt.Errorf("cache database not ready: %w", err)
	}
	return migrate.MigrateDb(migrate.Postgres, config.CacheDB)
}
