package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"resourceshop/internal/app/config"

	"github.com/go-redis/redis/v8"
)

const (
	servicePrefix = "resourceshop."
	jwtPrefix     = "jwt."
)

// Client wraps the redis connection shared by the JWT blacklist and the settings cache.
type Client struct {
	cfg    config.RedisConfig
	client *redis.Client
}

func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	client := &Client{cfg: cfg}

	redisClient := redis.NewClient(&redis.Options{
		Password:    cfg.Password,
		Username:    cfg.User,
		Addr:        cfg.Host + ":" + strconv.Itoa(cfg.Port),
		DB:          0,
		DialTimeout: cfg.DialTimeout,
		ReadTimeout: cfg.ReadTimeout,
	})

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("cant ping redis: %w", err)
	}

	client.client = redisClient
	return client, nil
}

// Raw exposes the underlying connection.
func (c *Client) Raw() *redis.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}

func getJWTKey(token string) string {
	return servicePrefix + jwtPrefix + token
}

// WriteJWTToBlacklist revokes token until its own expiry.
func (c *Client) WriteJWTToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	return c.client.Set(ctx, getJWTKey(token), true, ttl).Err()
}

// IsJWTBlacklisted reports whether token was revoked.
func (c *Client) IsJWTBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, getJWTKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
