package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 500 * time.Millisecond

var errNotConfigured = errors.New("redis not configured")

// Options configures the redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	// Timeout bounds dial, read and write; zero means 500ms.
	Timeout time.Duration
}

// Client is a session cache over redis. Reads and writes never fail: an
// unreachable server looks like an empty cache, so a redis outage costs
// sessions but never rider traffic. A nil *Client behaves the same way.
type Client struct {
	rdb *redis.Client
}

// New creates a client. It does not connect until first use.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{rdb: redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		MaxRetries:   1,
	})}
}

func (c *Client) disabled() bool {
	return c == nil || c.rdb == nil
}

// Get returns the value, or nil on a miss or when redis is unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c.disabled() {
		return nil, nil
	}
	res, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, nil
	}
	return res, nil
}

// Exists reports whether key is present; false when redis is unavailable.
func (c *Client) Exists(ctx context.Context, key string) bool {
	if c.disabled() {
		return false
	}
	n, err := c.rdb.Exists(ctx, key).Result()
	return err == nil && n > 0
}

// Set stores value with ttl. Redis errors are dropped.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.disabled() {
		return nil
	}
	_ = c.rdb.Set(ctx, key, value, ttl).Err()
	return nil
}

// Delete removes key. Redis errors are dropped.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c.disabled() {
		return nil
	}
	_ = c.rdb.Del(ctx, key).Err()
	return nil
}

// Ping reports reachability without swallowing the error; the health check
// depends on it.
func (c *Client) Ping(ctx context.Context) error {
	if c.disabled() {
		return errNotConfigured
	}
	return c.rdb.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *Client) Close() error {
	if c.disabled() {
		return nil
	}
	return c.rdb.Close()
}
