package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/jacksburguerebeer-bit/checklist-restaurantes/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	dashboardKey  = "dashboard:stats"
	checklistsKey = "checklists:active"
)

type Client struct {
	Client *redis.Client
}

// NewClient creates a new Redis client
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{Client: client}, nil
}

// Get retrieves a value from Redis
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

// Set sets a value in Redis with expiration
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.Client.Set(ctx, key, value, expiration).Err()
}

// Delete removes a key from Redis
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	return c.Client.Del(ctx, keys...).Err()
}

// GetDashboard retrieves the cached dashboard stats JSON
func (c *Client) GetDashboard(ctx context.Context) (string, error) {
	return c.Get(ctx, dashboardKey)
}

// SetDashboard caches the dashboard stats JSON
func (c *Client) SetDashboard(ctx context.Context, payload string, expiration time.Duration) error {
	return c.Set(ctx, dashboardKey, payload, expiration)
}

// InvalidateDashboard drops the cached dashboard stats. Called when an
// execution starts or finishes so the counts do not go stale for a full TTL.
func (c *Client) InvalidateDashboard(ctx context.Context) error {
	return c.Delete(ctx, dashboardKey)
}

// GetChecklists retrieves the cached active checklist catalog JSON
func (c *Client) GetChecklists(ctx context.Context) (string, error) {
	return c.Get(ctx, checklistsKey)
}

// SetChecklists caches the active checklist catalog JSON
func (c *Client) SetChecklists(ctx context.Context, payload string, expiration time.Duration) error {
	return c.Set(ctx, checklistsKey, payload, expiration)
}

// Close closes the Redis client
func (c *Client) Close() error {
	return c.Client.Close()
}
