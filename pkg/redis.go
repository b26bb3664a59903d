package pkg

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores JSON values under a common key prefix
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (slf *RedisCache) key(k string) string {
	return slf.prefix + ":" + k
}

// Set stores a value with a TTL. The value is JSON-serialized.
func (slf *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return slf.client.Set(ctx, slf.key(key), data, ttl).Err()
}

// Get retrieves a value and JSON-deserializes it into dest. found is false
// when the key does not exist.
func (slf *RedisCache) Get(ctx context.Context, key string, dest any) (found bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	data, err := slf.client.Get(ctx, slf.key(key)).Bytes()
	if IsRedisNil(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, json.Unmarshal(data, dest)
}

// Delete removes a key.
func (slf *RedisCache) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return slf.client.Del(ctx, slf.key(key)).Err()
}

// IsRedisNil returns true if the error is a redis key-not-found error.
func IsRedisNil(err error) bool {
	return errors.Is(err, redis.Nil)
}
