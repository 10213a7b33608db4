package repository

import (
	"context"
	"testing"

	"ctchen222/tictactoe/internal/game"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedisSessionRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}

	connStr, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(connStr)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })

	repo := NewRedisSessionRepository(rdb)

	s, err := repo.Create(ctx)
	require.NoError(t, err)

	for _, idx := range []int{0, 1, 4, 2, 8} {
		_, err = repo.Update(ctx, s.ID, func(e *game.Engine) error {
			_, err := e.Play(idx)
			return err
		})
		require.NoError(t, err)
	}

	found, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, game.StatusWonByX, found.State.Status)

	require.NoError(t, repo.Delete(ctx, s.ID))
}
