package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"kelfit/internal/config"
)

// Client is a fail-safe redis cache: failed reads behave like misses and
// failed writes are dropped, so requests fall through to the database while
// redis is down. A nil *Client is a valid cache that never hits.
type Client struct {
	rdb *redis.Client
}

// New connects lazily to the configured redis.
func New(cfg config.RedisConfig) *Client {
	return NewFromClient(redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}))
}

// NewFromClient wraps an existing redis client.
func NewFromClient(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

func (c *Client) enabled() bool {
	return c != nil && c.rdb != nil
}

// Ping reports whether redis is reachable. Unlike the other methods it
// returns the underlying error.
func (c *Client) Ping(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	if !c.enabled() {
		return nil
	}
	err := c.rdb.Close()
	if errors.Is(err, redis.ErrClosed) {
		return nil
	}
	return err
}

// Get returns the stored value and whether it was found.
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool) {
	if !c.enabled() {
		return nil, false
	}
	res, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil and connectivity errors alike
		return nil, false
	}
	return res, true
}

// Set stores value for ttl.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if !c.enabled() {
		return
	}
	_ = c.rdb.Set(ctx, key, value, ttl).Err()
}

// Delete removes keys.
func (c *Client) Delete(ctx context.Context, keys ...string) {
	if !c.enabled() || len(keys) == 0 {
		return
	}
	_ = c.rdb.Del(ctx, keys...).Err()
}

// GetJSON decodes a cached JSON value into dst. It reports false on a miss
// or when the cached payload no longer decodes.
func (c *Client) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	data, ok := c.Get(ctx, key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

// SetJSON caches value encoded as JSON.
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if payload, err := json.Marshal(value); err == nil {
		c.Set(ctx, key, payload, ttl)
	}
}
