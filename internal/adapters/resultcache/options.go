package resultcache

import (
	"time"

	"github.com/sethseligman/statstack-v1-archive/pkg/logger"
)

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMaxSize sets the maximum number of results kept in memory.
// If maxSize > 0: bounded mode with FIFO eviction.
// If maxSize <= 0: unbounded mode.
func WithMaxSize(maxSize int) MemoryOption {
	return func(s *MemoryStore) {
		s.maxSize = maxSize
	}
}

// RedisOption applies a configuration option to the RedisStore.
type RedisOption func(*RedisStore)

// WithTTL sets how long an entry lives in Redis. Zero keeps entries forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		if ttl >= 0 {
			s.ttl = ttl
		}
	}
}

// WithKeyPrefix overrides the key namespace.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// WithBreakerTimeout sets how long the breaker stays open before probing Redis again.
func WithBreakerTimeout(d time.Duration) RedisOption {
	return func(s *RedisStore) {
		if d > 0 {
			s.breakerTimeout = d
		}
	}
}

// CacheOption applies a configuration option to the Cache.
type CacheOption func(*Cache)

// WithLogger sets the logger used to report store failures.
func WithLogger(l logger.Logger) CacheOption {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}
