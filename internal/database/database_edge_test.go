package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/yelinaung/pgconnect/internal/config"
)

// TestConnect_WithMalformedURL tests connection with various malformed URLs.
func TestConnect_WithMalformedURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{
			name: "missing protocol",
			url:  "localhost:5432/test",
		},
		{
			name: "invalid protocol",
			url:  "http://localhost:5432/test",
		},
		{
			name: "invalid port",
			url:  "postgres://localhost:notaport/test",
		},
		{
			name: "unterminated quote in key value form",
			url:  "host=localhost password='unterminated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			pool, err := Connect(ctx, config.ConnectionConfig{URL: tt.url, MaxConnections: 100})

			// All of these should fail before any dial
			require.ErrorIs(t, err, ErrConnect)
			require.Contains(t, err.Error(), "unable to parse database URL")
			require.Nil(t, pool)
		})
	}
}

// TestConnect_WithCanceledContext tests that an already-canceled context aborts the attempt.
func TestConnect_WithCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool, err := Connect(ctx, config.ConnectionConfig{URL: unreachableURL, MaxConnections: 1})
	require.ErrorIs(t, err, ErrConnect)
	require.Nil(t, pool)
}

// TestConnect_ZeroMaxConnections forwards the pool's own validation failure.
func TestConnect_ZeroMaxConnections(t *testing.T) {
	cfg, err := config.Resolve(config.MapEnv{
		"DATABASE_URL":             unreachableURL,
		"DATABASE_MIN_CONNECTIONS": "0",
	})
	require.NoError(t, err)
	require.Equal(t, uint32(0), cfg.MaxConnections)

	pool, err := Connect(context.Background(), cfg)
	require.ErrorIs(t, err, ErrConnect)
	require.Nil(t, pool)
}
