package kv

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by Redis string keys.
// Values never expire.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// RedisOption configures a Redis store.
type RedisOption func(*Redis)

// WithPrefix namespaces every key as "prefix:key".
func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.prefix = prefix
	}
}

// NewRedis creates a Redis-backed store.
// The client lifecycle is managed by the caller.
//
// Example:
//
//	client, err := kv.Dial(ctx, os.Getenv("REDIS_URL"))
//	store := kv.NewRedis(client, kv.WithPrefix("polyglot"))
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{client: client}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	v, err := r.client.Get(ctx, r.prefixedKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return v, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return r.client.Set(ctx, r.prefixedKey(key), value, 0).Err()
}

func (r *Redis) Remove(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return r.client.Del(ctx, r.prefixedKey(key)).Err()
}

func (r *Redis) prefixedKey(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

var _ Store = (*Redis)(nil)
