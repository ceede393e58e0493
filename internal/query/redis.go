package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Acode-Foundation/acode-site/internal/config"
)

// keyPrefix namespaces gateway entries inside a shared redis.
const keyPrefix = "acode-site:"

// RedisStore is the backend for multi-instance deployments where the
// query cache should be shared. Entry GC maps onto redis TTLs.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg config.RedisConnection) (*RedisStore, error) {
	const op = "query.NewRedisStore"

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		Username:     cfg.User,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient wraps an existing client. Used in tests.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get retrieves an entry; an expired or absent key reads as a miss.
func (r *RedisStore) Get(ctx context.Context, key string) (*Entry, error) {
	const op = "query.RedisStore.Get"

	val, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var entry Entry
	if err := json.Unmarshal(val, &entry); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &entry, nil
}

// Set stores an entry with the GC window as its TTL.
func (r *RedisStore) Set(ctx context.Context, key string, entry *Entry, gcAfter time.Duration) error {
	const op = "query.RedisStore.Set"

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := r.client.Set(ctx, keyPrefix+key, data, gcAfter).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete removes one entry.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, keyPrefix+key).Err()
}

// DeletePrefix removes a whole key family. The scan pattern covers only
// "prefix/..." so sibling families sharing leading characters survive;
// the bare family key is deleted explicitly.
func (r *RedisStore) DeletePrefix(ctx context.Context, prefix string) error {
	const op = "query.RedisStore.DeletePrefix"

	if err := r.client.Del(ctx, keyPrefix+prefix).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	iter := r.client.Scan(ctx, 0, keyPrefix+prefix+"/*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close closes the redis connection.
func (r *RedisStore) Close() error { return r.client.Close() }
