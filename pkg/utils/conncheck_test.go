package utils

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromDBURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"postgresql://user:pw@db.local:6543/cache", "db.local:6543"},
		{"postgresql://user:pw@db.local/cache", "db.local:5432"},
		{"postgres://user@localhost/cache?sslmode=disable", "localhost:5432"},
		{"postgresql://localhost:5433/cache", "localhost:5433"},
		{"sqlite://cache/msd.sqlite", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFromDBURL(tt.url))
		})
	}
}

func TestWaitForTCP(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	assert.NoError(t, WaitForTCP(context.Background(), l.Addr().String(), time.Second))
}
