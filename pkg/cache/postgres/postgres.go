package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpapenbr/minisector-dominance/log"
	mycache "github.com/mpapenbr/minisector-dominance/pkg/cache"
	"github.com/mpapenbr/minisector-dominance/pkg/utils/cache"
)

//nolint:lll // ok for interface
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ Querier = (*pgx.Conn)(nil)
	_ Querier = (*pgxpool.Pool)(nil)
	_ Querier = pgx.Tx(nil)
)

// Store keeps responses in the http_cache table of a postgres database.
type Store struct {
	conn  Querier
	close func()
	log   *log.Logger
}

var _ mycache.Store = (*Store)(nil)

type Option func(*Store)

// WithCloser sets the function called on Close, e.g. the Close of the pool.
func WithCloser(f func()) Option {
	return func(s *Store) {
		s.close = f
	}
}

func New(conn Querier, opts ...Option) *Store {
	ret := &Store{conn: conn, log: log.Default().Named("cache.postgres")}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// NewWithPool creates a Store which closes pool on Close.
func NewWithPool(pool *pgxpool.Pool) *Store {
	return New(pool, WithCloser(pool.Close))
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var body []byte
	err := s.conn.QueryRow(ctx,
		"select body from http_cache where key=$1", key).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, cache.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.conn.Exec(ctx, `
insert into http_cache (key, body) values ($1, $2)
on conflict (key) do update set body=excluded.body, created_at=now()`,
		key, data)
	return err
}

func (s *Store) Clear(ctx context.Context) (int, error) {
	tag, err := s.conn.Exec(ctx, "delete from http_cache")
	if err != nil {
		return 0, err
	}
	s.log.Debug("cache cleared", log.Int64("entries", tag.RowsAffected()))
	return int(tag.RowsAffected()), nil
}

func (s *Store) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}
