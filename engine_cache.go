package goChallenge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/goChallenge/fingerprint"
	"github.com/MrEthical07/goChallenge/internal/stores"
)

// CacheLookup returns the cached payload for (resourceType, fp) if one is
// live. The second return reports whether the entry was found; absence is
// not an error.
func (e *Engine) CacheLookup(ctx context.Context, resourceType, fp string) ([]byte, bool, error) {
	if e.cache == nil {
		return nil, false, ErrEngineNotReady
	}
	if err := validateCacheKey(resourceType, fp); err != nil {
		return nil, false, err
	}

	data, err := e.cache.Get(ctx, resourceType, fp)
	if err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, mapStoreErr(err)
	}

	return data, true, nil
}

// CacheStore writes payload under (resourceType, fp). A ttl of zero or less
// falls back to CacheConfig.DefaultTTL; an existing entry is overwritten
// and its countdown restarts.
func (e *Engine) CacheStore(ctx context.Context, resourceType, fp string, payload []byte, ttl time.Duration) error {
	if e.cache == nil {
		return ErrEngineNotReady
	}
	if err := validateCacheKey(resourceType, fp); err != nil {
		return err
	}

	if ttl <= 0 {
		ttl = e.config.Cache.DefaultTTL
	}

	if err := e.cache.Set(ctx, resourceType, fp, payload, ttl); err != nil {
		return mapStoreErr(err)
	}

	return nil
}

// CacheInvalidate removes the entry for (resourceType, fp). Removing an
// entry that does not exist is not an error.
func (e *Engine) CacheInvalidate(ctx context.Context, resourceType, fp string) error {
	if e.cache == nil {
		return ErrEngineNotReady
	}
	if err := validateCacheKey(resourceType, fp); err != nil {
		return err
	}

	if err := e.cache.Delete(ctx, resourceType, fp); err != nil {
		return mapStoreErr(err)
	}

	return nil
}

// CachedQuery is the read-through composition: it derives the fingerprint
// of spec, serves the cached payload when live, and otherwise runs fetch,
// stores its result under the derived key, and returns it.
//
// A fetch error propagates unchanged and nothing is cached. A store
// failure after a successful fetch also propagates; the fetched payload is
// lost for caching purposes but the caller still made progress on the
// underlying read, so callers wanting best-effort caching should treat
// [ErrStoreUnavailable] here as non-fatal.
func (e *Engine) CachedQuery(ctx context.Context, resourceType string, spec fingerprint.QuerySpec, ttl time.Duration, fetch func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if e.cache == nil {
		return nil, ErrEngineNotReady
	}
	if resourceType == "" || fetch == nil {
		return nil, ErrCacheKeyInvalid
	}

	fp, err := fingerprint.Query(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheKeyInvalid, err)
	}

	data, hit, err := e.CacheLookup(ctx, resourceType, fp)
	if err != nil {
		return nil, err
	}
	if hit {
		return data, nil
	}

	data, err = fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := e.CacheStore(ctx, resourceType, fp, data, ttl); err != nil {
		return nil, err
	}

	return data, nil
}

func validateCacheKey(resourceType, fp string) error {
	if resourceType == "" || len(fp) != fingerprint.Length {
		return ErrCacheKeyInvalid
	}
	return nil
}
