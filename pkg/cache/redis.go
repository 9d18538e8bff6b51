package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a RedisCache.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int

	// Namespace is prepended to every key and bounds Clear. Defaults to
	// "stylekey:".
	Namespace string

	// DialTimeout bounds connection setup. Defaults to 2s.
	DialTimeout time.Duration
}

// DefaultRedisNamespace is used when RedisOptions.Namespace is empty.
const DefaultRedisNamespace = "stylekey:"

// redisBackoff is short: a cache that is slower than recomputing is useless.
var redisBackoff = Backoff{Attempts: 3, Delay: 50 * time.Millisecond}

// RedisCache stores entries in Redis so several server instances share them.
type RedisCache struct {
	client    *redis.Client
	namespace string
	backoff   Backoff
}

// NewRedisCache connects to Redis and verifies the connection with PING.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	if opts.Addr == "" {
		opts.Addr = "localhost:6379"
	}
	if opts.Namespace == "" {
		opts.Namespace = DefaultRedisNamespace
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 2 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping redis at %s: %v", ErrNetwork, opts.Addr, err)
	}
	return &RedisCache{client: client, namespace: opts.Namespace, backoff: redisBackoff}, nil
}

// Get retrieves a value from Redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	hit := false
	err := c.backoff.Retry(ctx, func() error {
		b, err := c.client.Get(ctx, c.namespace+key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return c.wrap("get", err)
		}
		data, hit = b, true
		return nil
	})
	if err != nil {
		return nil, false, unwrapRetry(err)
	}
	return data, hit, nil
}

// Set stores a value in Redis. A zero ttl stores without expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.backoff.Retry(ctx, func() error {
		return c.wrap("set", c.client.Set(ctx, c.namespace+key, data, ttl).Err())
	})
	return unwrapRetry(err)
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	err := c.backoff.Retry(ctx, func() error {
		return c.wrap("del", c.client.Del(ctx, c.namespace+key).Err())
	})
	return unwrapRetry(err)
}

// Clear deletes every key in the namespace using SCAN, so it never blocks
// the server the way KEYS would.
func (c *RedisCache) Clear(ctx context.Context) (int, error) {
	const batch = 256
	n := 0
	keys := make([]string, 0, batch)

	flush := func() error {
		if len(keys) == 0 {
			return nil
		}
		removed, err := c.client.Del(ctx, keys...).Result()
		if err != nil {
			return c.wrap("del", err)
		}
		n += int(removed)
		keys = keys[:0]
		return nil
	}

	iter := c.client.Scan(ctx, 0, c.namespace+"*", batch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == batch {
			if err := flush(); err != nil {
				return n, unwrapRetry(err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return n, unwrapRetry(c.wrap("scan", err))
	}
	return n, unwrapRetry(flush())
}

// Namespace returns the key prefix used in Redis.
func (c *RedisCache) Namespace() string {
	return c.namespace
}

// Close closes the Redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// wrap marks transport failures retryable. Context errors are returned as is.
func (c *RedisCache) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return Retryable(fmt.Errorf("%w: redis %s: %v", ErrNetwork, op, err))
}

// unwrapRetry strips the retry marker once retries are exhausted.
func unwrapRetry(err error) error {
	var re *RetryableError
	if errors.As(err, &re) {
		return re.Err
	}
	return err
}

var (
	_ Cache   = (*RedisCache)(nil)
	_ Clearer = (*RedisCache)(nil)
)
