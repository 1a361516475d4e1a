package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrRedisUnavailable = errors.New("rate gate redis unavailable")
)

// Gate enforces fixed-window counters keyed by the caller. It holds no
// limits itself; callers compare the returned count against their budget so
// one Gate can back independent issuance and attempt windows.
type Gate struct {
	redis redis.UniversalClient
}

// New creates a [Gate] backed by the given Redis client.
func New(redisClient redis.UniversalClient) *Gate {
	return &Gate{redis: redisClient}
}

// Hit atomically increments the counter at key and returns the
// post-increment count.
func (g *Gate) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := g.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := g.redis.Expire(ctx, key, window).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count, nil
}

// Reset clears the given counters, opening fresh windows on their next hit.
func (g *Gate) Reset(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := g.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Count returns the current counter value without consuming a hit.
// Missing keys return zero.
func (g *Gate) Count(ctx context.Context, key string) (int64, error) {
	count, err := g.redis.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count < 0 {
		return 0, nil
	}
	return count, nil
}
