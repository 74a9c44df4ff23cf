package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrNotFound is returned when a key has no value in the store.
var ErrNotFound = fmt.Errorf("key not found")

type Client struct {
	rdb *redis.Client
}

// SessionData is the cached view of an authenticated user, stored under the
// session token issued at login.
type SessionData struct {
	UserID    uint      `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Session management
func (c *Client) SetSession(token string, data *SessionData, ttl time.Duration) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	return c.rdb.Set(ctx, "session:"+token, jsonData, ttl).Err()
}

func (c *Client) GetSession(token string) (*SessionData, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "session:"+token).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session SessionData
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return &session, nil
}

func (c *Client) DeleteSession(token string) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, "session:"+token).Err()
}

// Collection storage. Whole collections are stored as one JSON blob under a
// single key with no TTL: load everything, filter in memory, save everything
// back. Concurrent writers are last-write-wins.
func (c *Client) SetCollection(key string, value interface{}) error {
	ctx := context.Background()
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal collection %s: %w", key, err)
	}

	return c.rdb.Set(ctx, key, jsonData, 0).Err()
}

func (c *Client) GetCollection(key string, dest interface{}) error {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get collection %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return fmt.Errorf("failed to unmarshal collection %s: %w", key, err)
	}
	return nil
}

func (c *Client) DeleteKey(key string) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, key).Err()
}

// Pending order count, denormalized for sidebar badges.
func (c *Client) SetPendingCount(count int) error {
	ctx := context.Background()
	return c.rdb.Set(ctx, "orders:pending_count", count, 0).Err()
}

func (c *Client) GetPendingCount() (int, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "orders:pending_count").Int()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get pending count: %w", err)
	}
	return val, nil
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
