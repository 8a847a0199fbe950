package resultcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/sethseligman/statstack-v1-archive/internal/domain/calculator"
	"github.com/sethseligman/statstack-v1-archive/pkg/logger"
)

const (
	defaultKeyPrefix      = "statstack:"
	defaultBreakerTimeout = 30 * time.Second
	breakerMinRequests    = 5
	breakerFailureRatio   = 0.5
)

// RedisStore keeps results in Redis so several service instances share them.
// Every call goes through a circuit breaker; while it is open calls fail fast.
type RedisStore struct {
	client         redis.Cmdable
	ttl            time.Duration
	prefix         string
	breakerTimeout time.Duration
	breaker        *gobreaker.CircuitBreaker
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client redis.Cmdable, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client:         client,
		prefix:         defaultKeyPrefix,
		breakerTimeout: defaultBreakerTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	log := logger.Get().Named("resultcache")
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "result-cache-redis",
		MaxRequests: 1,
		Timeout:     s.breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= breakerMinRequests && failureRatio >= breakerFailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn(context.Background(), "circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})
	return s
}

// Dial connects to Redis and verifies the connection with PING.
func Dial(ctx context.Context, addr, password string, db int, opts ...RedisOption) (*RedisStore, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewRedisStore(client, opts...), client, nil
}

// Get reads and decodes the entry for key. A missing key is not an error.
func (s *RedisStore) Get(ctx context.Context, key string) (calculator.Result, bool, error) {
	raw, err := s.breaker.Execute(func() (interface{}, error) {
		b, err := s.client.Get(ctx, s.prefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return b, err
	})
	if err != nil {
		return calculator.Result{}, false, fmt.Errorf("redis get: %w", err)
	}
	b, _ := raw.([]byte)
	if b == nil {
		return calculator.Result{}, false, nil
	}

	var res calculator.Result
	if err := json.Unmarshal(b, &res); err != nil {
		return calculator.Result{}, false, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return res, true, nil
}

// Set encodes res and writes it with the configured TTL.
func (s *RedisStore) Set(ctx context.Context, key string, res calculator.Result) error { //nolint:gocritic // hugeParam: Result is stored by value
	b, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	_, err = s.breaker.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, s.prefix+key, b, s.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// State reports the breaker state, for stats.
func (s *RedisStore) State() string {
	return s.breaker.State().String()
}
