// Package redis provides a Redis-backed implementation of the storage.Store interface.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mmynk/storefront/internal/storage"
)

var _ storage.Store = (*RedisStore)(nil)

const keyPrefix = "storefront"

// RedisStore implements storage.Store on a Redis client. Each session value
// lives under its own key and expires after the configured idle TTL, which
// is refreshed on every write.
type RedisStore struct {
	client *goredis.Client
	ttl    time.Duration
}

// New connects to the Redis server at redisURL and verifies the connection.
// A zero ttl keeps values forever.
func New(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.MaxRetries = 3

	client := goredis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewWithClient(client, ttl), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *goredis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func valueKey(sessionID, key string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, sessionID, key)
}

// Get retrieves the value stored under key for the session.
func (s *RedisStore) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, valueKey(sessionID, key)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores the value and refreshes its TTL.
func (s *RedisStore) Set(ctx context.Context, sessionID, key, value string) error {
	if err := s.client.Set(ctx, valueKey(sessionID, key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete removes key for the session.
func (s *RedisStore) Delete(ctx context.Context, sessionID, key string) error {
	if err := s.client.Del(ctx, valueKey(sessionID, key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
