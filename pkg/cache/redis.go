package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang/snappy"
	"github.com/redis/go-redis/v9"
)

// RedisCache stores snappy-compressed values in Redis. Expiry is handled
// by Redis itself.
type RedisCache struct {
	client redis.UniversalClient
	owned  bool
}

// NewRedisCache connects to the Redis server at url
// (redis://[user:pass@]host:port/db) and checks the connection.
func NewRedisCache(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w: %w", ErrNetwork, err)
	}
	return &RedisCache{client: client, owned: true}, nil
}

// NewRedisCacheFromClient uses an existing client. Close leaves the client
// open.
func NewRedisCacheFromClient(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

// Get retrieves and decompresses a value.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var raw []byte
	err := RetryWithBackoff(ctx, func() error {
		b, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return redisError("get", key, err)
		}
		raw = b
		return nil
	})
	if err != nil || raw == nil {
		return nil, false, err
	}
	data, err := snappy.Decode(nil, raw)
	if err != nil {
		// Not ours or truncated: drop it.
		_ = c.client.Del(ctx, key).Err()
		return nil, false, nil
	}
	return data, true, nil
}

// Set compresses and stores a value.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	encoded := snappy.Encode(nil, data)
	return RetryWithBackoff(ctx, func() error {
		if err := c.client.Set(ctx, key, encoded, ttl).Err(); err != nil {
			return redisError("set", key, err)
		}
		return nil
	})
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return RetryWithBackoff(ctx, func() error {
		if err := c.client.Del(ctx, key).Err(); err != nil {
			return redisError("del", key, err)
		}
		return nil
	})
}

// Client returns the underlying client, e.g. to share it with a pub/sub
// transport.
func (c *RedisCache) Client() redis.UniversalClient { return c.client }

// Close closes the client if this cache created it.
func (c *RedisCache) Close() error {
	if !c.owned {
		return nil
	}
	return c.client.Close()
}

func redisError(op, key string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return Retryable(fmt.Errorf("redis %s %s: %w: %w", op, key, ErrNetwork, err))
}

var _ Cache = (*RedisCache)(nil)
