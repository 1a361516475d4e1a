package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrNotFound         = errors.New("ephemeral record not found")
	ErrRedisUnavailable = errors.New("ephemeral store redis unavailable")
)

// putPreserveTTLLua writes a payload while keeping the key's remaining TTL.
// A missing or persistent key falls back to the provided TTL, so the write
// both updates in place mid-window and opens a window when none exists.
// KEYS[1] = record key
// ARGV[1] = payload bytes
// ARGV[2] = fallback TTL in milliseconds
var putPreserveTTLLua = redis.NewScript(`
local ttl = redis.call('PTTL', KEYS[1])
if ttl <= 0 then
  ttl = tonumber(ARGV[2])
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ttl)
return 1
`)

// Ephemeral is a thin typed wrapper over the external TTL key-value service.
// Every call is a single atomic store operation; it carries no business
// logic and no cross-key coordination.
type Ephemeral struct {
	redis redis.UniversalClient
}

// NewEphemeral creates an [Ephemeral] store backed by the given Redis client.
func NewEphemeral(redisClient redis.UniversalClient) *Ephemeral {
	return &Ephemeral{redis: redisClient}
}

// Put stores payload under key. With preserveTTL the key's remaining TTL is
// kept (falling back to ttl when the key is absent), so repeated updates
// inside a window never restart its countdown. Without preserveTTL the key
// gets the full ttl from the time of the write.
func (s *Ephemeral) Put(ctx context.Context, key string, payload []byte, ttl time.Duration, preserveTTL bool) error {
	if preserveTTL {
		err := putPreserveTTLLua.Run(ctx, s.redis, []string{key}, payload, ttl.Milliseconds()).Err()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		return nil
	}

	if err := s.redis.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Get returns the payload at key, or [ErrNotFound] when the key is absent or
// already expired. Transport failures are never reported as absence.
func (s *Ephemeral) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return data, nil
}

// Delete removes the given keys. Deleting an absent key is not an error.
func (s *Ephemeral) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}
