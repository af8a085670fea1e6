package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/shopeasy/product-store/internal/cart"
)

// KVStore is the Redis-backed durable key/value store holding client session
// state (serialized cart and user record). Keys are namespaced per client so
// multiple sessions can share one Redis database.
type KVStore struct {
	client *redis.Client
	prefix string
}

// NewKVStore wraps client; prefix distinguishes one client's entries from
// another's (e.g. a session id).
func NewKVStore(client *redis.Client, prefix string) *KVStore {
	return &KVStore{client: client, prefix: prefix}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", cart.ErrNotFound
		}
		return "", fmt.Errorf("kv get: %w", err)
	}
	return val, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("kv set: %w", err)
	}
	return nil
}

func (s *KVStore) Del(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("kv del: %w", err)
	}
	return nil
}

func (s *KVStore) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}
