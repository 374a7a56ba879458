// Package redis opens the Redis connection used by the shared request counter.
//
// It wraps [github.com/redis/go-redis/v9] with a small [Config] that is filled
// from environment variables, retries the initial ping with a linear backoff,
// and exposes a health check and a shutdown hook.
//
// # Usage
//
//	client, err := redis.Open(ctx, redis.Config{URL: os.Getenv("REDIS_URL")})
//	if err != nil {
//		return err
//	}
//	store := counter.NewRedis(client)
//
// Both redis:// and rediss:// (TLS) URLs are accepted.
package redis
