package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pizzeria:"

// Client wraps redis.Client. Reads degrade to "miss" when redis is unreachable;
// writes and counters surface errors. A nil *Client behaves like an unavailable cache.
type Client struct {
	client *redis.Client
	logger *slog.Logger
}

// New creates a new Redis client. No connection is made until first use.
func New(addr, password string, db int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		client: redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     password,
			DB:           db,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		}),
		logger: logger,
	}
}

func (c *Client) available() bool {
	return c != nil && c.client != nil
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if !c.available() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	if !c.available() {
		return nil
	}
	return c.client.Close()
}

// Exists reports whether key is present. Redis failures read as absent.
func (c *Client) Exists(ctx context.Context, key string) bool {
	if !c.available() {
		return false
	}
	n, err := c.client.Exists(ctx, keyPrefix+key).Result()
	if err != nil {
		c.degraded(ctx, "exists", key, err)
		return false
	}
	return n > 0
}

// Set stores value under key for ttl and reports write failures.
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if !c.available() {
		return ErrUnavailable
	}
	if err := c.client.Set(ctx, keyPrefix+key, value, ttl).Err(); err != nil {
		c.degraded(ctx, "set", key, err)
		return err
	}
	return nil
}

// Incr increments a counter. INCR and EXPIRE NX run in one MULTI/EXEC, so the
// counter always carries a TTL and the window starts at the first increment.
// EXPIRE NX needs redis 7.0 or later.
func (c *Client) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if !c.available() {
		return 0, ErrUnavailable
	}
	key = keyPrefix + key

	var incr *redis.IntCmd
	if _, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, ttl)
		return nil
	}); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (c *Client) degraded(ctx context.Context, op, key string, err error) {
	c.logger.WarnContext(ctx, "redis command failed",
		slog.String("op", op),
		slog.String("key", key),
		slog.String("error", err.Error()),
	)
}
