package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/mpapenbr/minisector-dominance/log"
	mycache "github.com/mpapenbr/minisector-dominance/pkg/cache"
	"github.com/mpapenbr/minisector-dominance/pkg/db/migrate"
	"github.com/mpapenbr/minisector-dominance/pkg/utils/cache"
)

const FileName = "msd_http_cache.sqlite"

type Store struct {
	db   *sql.DB
	path string
	log  *log.Logger
}

var _ mycache.Store = (*Store)(nil)

// Path returns the location of the cache file within dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Open creates dir if needed, applies the schema and opens the cache file.
func Open(ctx context.Context, dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	path := Path(dir)
	if err := migrate.MigrateDb(migrate.Sqlite, path); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, path: path, log: log.Default().Named("cache.sqlite")}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM http_cache WHERE key = ?", key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, cache.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO http_cache (key, body) VALUES (?, ?)
ON CONFLICT (key) DO UPDATE SET body = excluded.body, created_at = CURRENT_TIMESTAMP`,
		key, data)
	return err
}

func (s *Store) Clear(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM http_cache")
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	s.log.Debug("cache cleared", log.Int64("entries", n))
	return int(n), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
