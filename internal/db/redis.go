package db

import (
	"context"
	"fmt"

	"ctchen222/tictactoe/internal/config"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient creates and returns a new Redis client for cfg and pings
// the server to make sure it is reachable.
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return client, nil
}
