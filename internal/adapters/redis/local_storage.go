package redis

// Package redis provides Redis-based adapters for the EDUCA session gateway.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces browser storage keys in a shared Redis.
const DefaultKeyPrefix = "educa:storage:"

// LocalStorage is a Redis-backed ports.LocalStorage.
// Keys are laid out as <prefix><scope>:<key>.
type LocalStorage struct {
	client redis.UniversalClient
	prefix string
}

// NewLocalStorage creates a Redis local storage with the default key prefix.
func NewLocalStorage(client redis.UniversalClient) *LocalStorage {
	return NewLocalStorageWithPrefix(client, DefaultKeyPrefix)
}

// NewLocalStorageWithPrefix creates a Redis local storage with a custom key prefix.
func NewLocalStorageWithPrefix(client redis.UniversalClient, prefix string) *LocalStorage {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &LocalStorage{client: client, prefix: prefix}
}

func (s *LocalStorage) key(scope, key string) string {
	return s.prefix + scope + ":" + key
}

func (s *LocalStorage) GetItem(ctx context.Context, scope, key string) (string, bool, error) {
	if scope == "" {
		return "", false, ErrEmptyScope
	}
	val, err := s.client.Get(ctx, s.key(scope, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return val, true, nil
}

func (s *LocalStorage) SetItem(ctx context.Context, scope, key, value string, ttl time.Duration) error {
	if scope == "" {
		return ErrEmptyScope
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.key(scope, key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *LocalStorage) RemoveItems(ctx context.Context, scope string, keys ...string) error {
	if scope == "" || len(keys) == 0 {
		return nil
	}
	// Cluster mode rejects multi-key DEL across slots, so delete one key at a time.
	pipe := s.client.Pipeline()
	for _, k := range keys {
		pipe.Del(ctx, s.key(scope, k))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Ping checks connectivity to Redis.
func (s *LocalStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// ErrEmptyScope is returned when a read or write names no browser scope.
var ErrEmptyScope = errors.New("storage scope cannot be empty")
