package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisPingTimeout bounds the startup connectivity probe so a dead broker
// fails the boot sequence quickly instead of hanging it.
const redisPingTimeout = 5 * time.Second

// NewRedis parses the connection URL, opens a client, and pings it once.
// Redis backs the price-lookup cache and the invoice/email job queues, so
// the process refuses to start without it.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
