package history

import "github.com/redis/rueidis"

// NewRedisBackendForTest creates a RedisBackend with the provided rueidis
// client (test-only).
func NewRedisBackendForTest(c rueidis.Client, key string) *RedisBackend {
	return &RedisBackend{client: c, key: key}
}
