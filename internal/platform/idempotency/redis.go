package idempotency

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const redisPrefix = "flowguard:"

// Redis keeps markers as expiring keys; expiry is handled by the server.
type Redis struct {
	rdb *goredis.Client
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis connects and pings the server.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis connect: %w", err)
	}
	return &Redis{rdb: rdb}, nil
}

// NewRedisFromClient wraps an existing client without pinging it.
func NewRedisFromClient(rdb *goredis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func (r *Redis) Seen(ctx context.Context, key string) (bool, error) {
	n, err := r.rdb.Exists(ctx, redisPrefix+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Redis) Mark(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, redisPrefix+key, "1", ttl).Err()
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
