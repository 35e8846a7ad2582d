package postgres

import (
	"bytes"
	"context"
	"testing"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/minisector-dominance/log"
)

func TestQueryTracer(t *testing.T) {
	tests := []struct {
		name     string
		withOtel bool
		want     int
	}{
		{name: "logger only", withOtel: false, want: 1},
		{name: "logger and otel", withOtel: true, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer := QueryTracer(log.New(&bytes.Buffer{}, log.DebugLevel), tt.withOtel)
			require.Len(t, tracer, tt.want)
			assert.IsType(t, &myQueryTracer{}, tracer[0])
			if tt.withOtel {
				assert.IsType(t, &otelpgx.Tracer{}, tracer[1])
			}
		})
	}
}

func TestWithTracer(t *testing.T) {
	cfg, err := pgxpool.ParseConfig("postgres://user:pw@localhost:5432/msd")
	require.NoError(t, err)
	tracer := QueryTracer(log.New(&bytes.Buffer{}, log.DebugLevel), true)
	WithTracer(tracer)(cfg)
	assert.Equal(t, pgx.QueryTracer(tracer), cfg.ConnConfig.Tracer)
}

func TestMyTracer(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewMyTracer(log.New(&buf, log.DebugLevel))
	ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{
		SQL:  "select body from http_cache where key=$1",
		Args: []any{"k1"},
	})
	tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{Err: pgx.ErrNoRows})
	assert.Contains(t, buf.String(), "http_cache")
	assert.Contains(t, buf.String(), "Query failed")
}
