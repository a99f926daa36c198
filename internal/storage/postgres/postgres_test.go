package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/tracker/internal/config"
	"github.com/cory-johannsen/tracker/internal/storage/postgres"
	"github.com/cory-johannsen/tracker/internal/testutil"
)

func TestPool_ReadyRequiresMigrations(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	ctx := context.Background()

	assert.ErrorIs(t, pc.Pool.Ready(ctx), postgres.ErrSchemaMissing)

	pc.ApplyMigrations(t)
	require.NoError(t, pc.Pool.Ready(ctx))

	repo := pc.Pool.Encounters()
	require.NoError(t, repo.Write(ctx, "ready", []byte(`{"characters": [], "enemies": []}`)))
	ids, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ready"}, ids)
}

func TestNewPool_ConnectTimeoutBoundsUnreachableServer(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:           "10.255.255.1",
		Port:           5432,
		User:           "tracker",
		Password:       "tracker",
		Name:           "tracker",
		SSLMode:        "disable",
		MaxConns:       1,
		ConnectTimeout: 200 * time.Millisecond,
	}

	start := time.Now()
	pool, err := postgres.NewPool(context.Background(), cfg)
	if pool != nil {
		pool.Close()
	}
	require.Error(t, err)
	assert.Contains(t, err.Error(), "10.255.255.1:5432")
	assert.Less(t, time.Since(start), 10*time.Second)
}
