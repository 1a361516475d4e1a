package goChallenge

import (
	"context"
	"time"

	"github.com/MrEthical07/goChallenge/internal/stores"
)

// cacheStore namespaces cache entries by resource type so a product list
// and an order list hashing to the same fingerprint never collide.
type cacheStore struct {
	store  *stores.Ephemeral
	prefix string
}

func newCacheStore(store *stores.Ephemeral, prefix string) *cacheStore {
	return &cacheStore{
		store:  store,
		prefix: prefix,
	}
}

func (s *cacheStore) key(resourceType, fp string) string {
	return s.prefix + ":" + resourceType + ":" + fp
}

func (s *cacheStore) Get(ctx context.Context, resourceType, fp string) ([]byte, error) {
	return s.store.Get(ctx, s.key(resourceType, fp))
}

// Set always writes with a fresh TTL: cache entries, unlike challenge
// windows, must not inherit a stale countdown from the entry they replace.
func (s *cacheStore) Set(ctx context.Context, resourceType, fp string, payload []byte, ttl time.Duration) error {
	return s.store.Put(ctx, s.key(resourceType, fp), payload, ttl, false)
}

func (s *cacheStore) Delete(ctx context.Context, resourceType, fp string) error {
	return s.store.Delete(ctx, s.key(resourceType, fp))
}
