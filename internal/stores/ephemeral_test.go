package stores

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *Ephemeral) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	return mr, NewEphemeral(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestPutGetRoundTrip(t *testing.T) {
	mr, store := newTestStore(t)
	defer mr.Close()

	ctx := context.Background()
	payload := []byte{0x01, 0x00, 0xff, 'x'}

	if err := store.Put(ctx, "k", payload, time.Minute, false); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: %v", got)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	mr, store := newTestStore(t)
	defer mr.Close()

	_, err := store.Get(context.Background(), "absent")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetExpiredReturnsNotFound(t *testing.T) {
	mr, store := newTestStore(t)
	defer mr.Close()

	ctx := context.Background()
	if err := store.Put(ctx, "k", []byte("v"), time.Minute, false); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	mr.FastForward(time.Minute + time.Second)

	_, err := store.Get(ctx, "k")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestPutPreserveTTLKeepsCountdown(t *testing.T) {
	mr, store := newTestStore(t)
	defer mr.Close()

	ctx := context.Background()
	if err := store.Put(ctx, "k", []byte("v1"), 5*time.Minute, false); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if err := store.Put(ctx, "k", []byte("v2"), 5*time.Minute, true); err != nil {
		t.Fatalf("preserveTTL Put failed: %v", err)
	}

	if ttl := mr.TTL("k"); ttl != 3*time.Minute {
		t.Fatalf("expected 3m remaining, got %v", ttl)
	}
	got, err := store.Get(ctx, "k")
	if err != nil || string(got) != "v2" {
		t.Fatalf("expected updated payload, got %q err=%v", got, err)
	}
}

func TestPutPreserveTTLFallsBackWhenAbsent(t *testing.T) {
	mr, store := newTestStore(t)
	defer mr.Close()

	ctx := context.Background()
	if err := store.Put(ctx, "k", []byte("v"), 5*time.Minute, true); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if ttl := mr.TTL("k"); ttl != 5*time.Minute {
		t.Fatalf("expected fallback TTL of 5m, got %v", ttl)
	}
}

func TestPutWithoutPreserveRestartsTTL(t *testing.T) {
	mr, store := newTestStore(t)
	defer mr.Close()

	ctx := context.Background()
	if err := store.Put(ctx, "k", []byte("v1"), 5*time.Minute, false); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if err := store.Put(ctx, "k", []byte("v2"), 5*time.Minute, false); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if ttl := mr.TTL("k"); ttl != 5*time.Minute {
		t.Fatalf("expected full 5m TTL, got %v", ttl)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	mr, store := newTestStore(t)
	defer mr.Close()

	ctx := context.Background()
	if err := store.Put(ctx, "k", []byte("v"), time.Minute, false); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := store.Delete(ctx, "k", "absent"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("repeat Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStoreRedisUnavailable(t *testing.T) {
	mr, store := newTestStore(t)
	mr.Close()

	ctx := context.Background()
	if err := store.Put(ctx, "k", []byte("v"), time.Minute, false); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable on Put, got %v", err)
	}
	if err := store.Put(ctx, "k", []byte("v"), time.Minute, true); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable on preserveTTL Put, got %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable on Get, got %v", err)
	}
}
