package counter

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the Redis key used when none is configured.
const DefaultRedisKey = "edge:api:calls"

// Store holds the request counter.
type Store interface {
	// Incr adds one and returns the new value.
	Incr(ctx context.Context) (int64, error)
	// Value returns the current value without changing it.
	Value(ctx context.Context) (int64, error)
}

// Memory is an in-process counter starting at zero.
type Memory struct {
	n atomic.Int64
}

// NewMemory creates a counter starting at zero.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Incr(context.Context) (int64, error) {
	return m.n.Add(1), nil
}

func (m *Memory) Value(context.Context) (int64, error) {
	return m.n.Load(), nil
}

// Redis keeps the counter in a Redis key.
type Redis struct {
	client redis.UniversalClient
	key    string
}

// RedisOption configures a Redis store.
type RedisOption func(*Redis)

// WithKey sets the Redis key. Default: DefaultRedisKey.
func WithKey(key string) RedisOption {
	return func(r *Redis) {
		if key != "" {
			r.key = key
		}
	}
}

// NewRedis creates a store backed by the given client.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{client: client, key: DefaultRedisKey}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) Incr(ctx context.Context) (int64, error) {
	n, err := r.client.Incr(ctx, r.key).Result()
	if err != nil {
		return 0, errors.Join(ErrIncrementFailed, err)
	}
	return n, nil
}

func (r *Redis) Value(ctx context.Context) (int64, error) {
	s, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Join(ErrReadFailed, err)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Join(ErrReadFailed, err)
	}
	return n, nil
}

// Key returns the Redis key holding the counter.
func (r *Redis) Key() string {
	return r.key
}
