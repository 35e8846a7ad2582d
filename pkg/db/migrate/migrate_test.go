package migrate

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestDatabaseURL(t *testing.T) {
	tests := []struct {
		backend Backend
		uri     string
		want    string
	}{
		{Postgres, "postgresql://u:p@localhost:5432/db", "pgx5://u:p@localhost:5432/db"},
		{Postgres, "postgres://u:p@localhost/db", "pgx5://u:p@localhost/db"},
		{Sqlite, "cache/msd_http_cache.sqlite", "sqlite://cache/msd_http_cache.sqlite"},
		{Sqlite, "sqlite:///tmp/x.sqlite", "sqlite:///tmp/x.sqlite"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, databaseURL(tt.backend, tt.uri))
	}
}
