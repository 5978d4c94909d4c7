package rdx

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Client wraps the process-wide Redis connection. Like db.Store it is
// created once in main and injected.
type Client struct {
	Conn *redis.Client
}

func New(addr string) *Client {
	return &Client{Conn: redis.NewClient(&redis.Options{Addr: addr})}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.Conn.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.Conn.Close()
}

func (c *Client) HSet(ctx context.Context, hash, field, value string) error {
	return c.Conn.HSet(ctx, hash, field, value).Err()
}

func (c *Client) HDel(ctx context.Context, hash, field string) (int64, error) {
	return c.Conn.HDel(ctx, hash, field).Result()
}
