package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrStoreNotAvailable = errors.New("session store not available")
	ErrSessionNotFound   = errors.New("session not found")
)

// Store keeps live session records in Redis under a common prefix. A Store
// with a nil client accepts writes and reports ErrStoreNotAvailable on reads.
type Store struct {
	client *redis.Client
	prefix string
}

func NewStore(client *redis.Client, prefix string) *Store {
	return &Store{
		client: client,
		prefix: prefix,
	}
}

// NewRedisStore returns the store for session records.
func NewRedisStore(client *redis.Client) *Store {
	return NewStore(client, keyPrefix)
}

// Available reports whether the store is backed by a Redis client.
func (s *Store) Available() bool {
	return s != nil && s.client != nil
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

// Put marshals value and stores it with ttl.
func (s *Store) Put(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Available() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("session marshal error: %w", err)
	}

	return s.client.Set(ctx, s.key(key), data, ttl).Err()
}

// Get retrieves and unmarshals a record.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) error {
	if !s.Available() {
		return ErrStoreNotAvailable
	}

	data, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("session get error: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("session unmarshal error: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if !s.Available() || len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	return s.client.Del(ctx, full...).Err()
}

// DeletePattern removes every key matching pattern. It walks the keyspace with
// SCAN and deletes in pipelined batches.
func (s *Store) DeletePattern(ctx context.Context, pattern string) (int, error) {
	if !s.Available() {
		return 0, nil
	}

	fullPattern := s.key(pattern)
	var cursor uint64
	var keys []string

	for {
		batch, next, err := s.client.Scan(ctx, cursor, fullPattern, 100).Result()
		if err != nil {
			slog.ErrorContext(ctx, "Session scan error", "error", err, "pattern", fullPattern)
			return 0, fmt.Errorf("session scan error: %w", err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if len(keys) == 0 {
		return 0, nil
	}

	pipe := s.client.Pipeline()
	const batchSize = 100
	for i := 0; i < len(keys); i += batchSize {
		end := i + batchSize
		if end > len(keys) {
			end = len(keys)
		}
		pipe.Del(ctx, keys[i:end]...)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		slog.ErrorContext(ctx, "Session pipeline delete error", "error", err, "total_keys", len(keys))
		return 0, fmt.Errorf("session pipeline delete error: %w", err)
	}
	return len(keys), nil
}

// HealthCheck verifies Redis connectivity.
func (s *Store) HealthCheck(ctx context.Context) error {
	if !s.Available() {
		return ErrStoreNotAvailable
	}
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("session store health check failed: %w", err)
	}
	return nil
}
