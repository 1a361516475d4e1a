package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestGate(t *testing.T) (*miniredis.Miniredis, *Gate) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	return mr, New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestHitCountsUp(t *testing.T) {
	mr, gate := newTestGate(t)
	defer mr.Close()

	ctx := context.Background()
	for want := int64(1); want <= 3; want++ {
		got, err := gate.Hit(ctx, "w:alice", time.Minute)
		if err != nil {
			t.Fatalf("Hit failed: %v", err)
		}
		if got != want {
			t.Fatalf("expected count %d, got %d", want, got)
		}
	}
}

func TestHitAnchorsWindowAtFirstHit(t *testing.T) {
	mr, gate := newTestGate(t)
	defer mr.Close()

	ctx := context.Background()
	if _, err := gate.Hit(ctx, "w:alice", time.Minute); err != nil {
		t.Fatalf("Hit failed: %v", err)
	}

	mr.FastForward(30 * time.Second)

	// A later hit must not extend the window.
	if _, err := gate.Hit(ctx, "w:alice", time.Minute); err != nil {
		t.Fatalf("Hit failed: %v", err)
	}
	if ttl := mr.TTL("w:alice"); ttl != 30*time.Second {
		t.Fatalf("expected remaining window of 30s, got %v", ttl)
	}
}

func TestWindowExpiryResetsCount(t *testing.T) {
	mr, gate := newTestGate(t)
	defer mr.Close()

	ctx := context.Background()
	if _, err := gate.Hit(ctx, "w:alice", time.Minute); err != nil {
		t.Fatalf("Hit failed: %v", err)
	}

	mr.FastForward(time.Minute + time.Second)

	got, err := gate.Hit(ctx, "w:alice", time.Minute)
	if err != nil {
		t.Fatalf("Hit failed: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected fresh window to start at 1, got %d", got)
	}
}

func TestResetOpensFreshWindow(t *testing.T) {
	mr, gate := newTestGate(t)
	defer mr.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := gate.Hit(ctx, "w:alice", time.Minute); err != nil {
			t.Fatalf("Hit failed: %v", err)
		}
	}

	if err := gate.Reset(ctx, "w:alice", "w:absent"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	got, err := gate.Hit(ctx, "w:alice", time.Minute)
	if err != nil {
		t.Fatalf("Hit failed: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected count 1 after reset, got %d", got)
	}
}

func TestCountDoesNotConsume(t *testing.T) {
	mr, gate := newTestGate(t)
	defer mr.Close()

	ctx := context.Background()

	got, err := gate.Count(ctx, "w:missing")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected 0 for missing counter, got %d", got)
	}

	if _, err := gate.Hit(ctx, "w:alice", time.Minute); err != nil {
		t.Fatalf("Hit failed: %v", err)
	}
	if got, err = gate.Count(ctx, "w:alice"); err != nil || got != 1 {
		t.Fatalf("expected 1, got %d err=%v", got, err)
	}
	if got, err = gate.Count(ctx, "w:alice"); err != nil || got != 1 {
		t.Fatalf("Count must not increment, got %d err=%v", got, err)
	}
}

func TestGateRedisUnavailable(t *testing.T) {
	mr, gate := newTestGate(t)
	mr.Close()

	if _, err := gate.Hit(context.Background(), "w:alice", time.Minute); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
	if err := gate.Reset(context.Background(), "w:alice"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
}
