package postgres

import (
	"context"
	"fmt"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgx-contrib/pgxtrace"

	"github.com/mpapenbr/minisector-dominance/log"
)

type PoolConfigOption func(cfg *pgxpool.Config)

// WithTracer installs tracer on every connection of the pool.
// Use a pgxtrace.CompositeQueryTracer to combine several tracers.
func WithTracer(tracer pgx.QueryTracer) PoolConfigOption {
	return func(cfg *pgxpool.Config) {
		cfg.ConnConfig.Tracer = tracer
	}
}

// NewMyTracer logs every query at debug level.
func NewMyTracer(logger *log.Logger) pgx.QueryTracer {
	return &myQueryTracer{log: logger}
}

// NewOtlpTracer creates a span per query on the global tracer provider
// unless otelpgx.WithTracerProvider is given.
func NewOtlpTracer(opts ...otelpgx.Option) pgx.QueryTracer {
	return otelpgx.NewTracer(opts...)
}

// QueryTracer combines the sql logger with the otel tracer if withOtel is set.
func QueryTracer(logger *log.Logger, withOtel bool) pgxtrace.CompositeQueryTracer {
	tracer := pgxtrace.CompositeQueryTracer{NewMyTracer(logger)}
	if withOtel {
		tracer = append(tracer, NewOtlpTracer())
	}
	return tracer
}

func WithMaxConns(n int32) PoolConfigOption {
	return func(cfg *pgxpool.Config) {
		cfg.MaxConns = n
	}
}

func InitWithURL(ctx context.Context, url string, opts ...PoolConfigOption) (
	*pgxpool.Pool, error,
) {
	dbConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}
	for _, opt := range opts {
		opt(dbConfig)
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create the database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to get a valid database connection: %w", err)
	}
	return pool, nil
}

type myQueryTracer struct {
	log *log.Logger
}

func (tracer *myQueryTracer) TraceQueryStart(
	ctx context.Context,
	_ *pgx.Conn,
	data pgx.TraceQueryStartData,
) context.Context {
	tracer.log.Debug("Executing", log.String("sql", data.SQL), log.Int("args", len(data.Args)))
	return ctx
}

//nolint:whitespace // can't make the linters happy
func (tracer *myQueryTracer) TraceQueryEnd(
	ctx context.Context,
	conn *pgx.Conn,
	data pgx.TraceQueryEndData,
) {
	if data.Err != nil {
		tracer.log.Debug("Query failed", log.ErrorField(data.Err))
	}
}
