package goChallenge

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

type sentMessage struct {
	address string
	subject string
	body    string
}

// mockNotifier records every dispatched message. Message bodies end with the
// plaintext code, so tests read it back from the last send.
type mockNotifier struct {
	mu    sync.Mutex
	sends []sentMessage
	fail  bool
}

func (n *mockNotifier) Send(ctx context.Context, address, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.fail {
		return errors.New("smtp unreachable")
	}

	n.sends = append(n.sends, sentMessage{address: address, subject: subject, body: body})
	return nil
}

func (n *mockNotifier) lastSend(t *testing.T) sentMessage {
	t.Helper()

	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.sends) == 0 {
		t.Fatal("expected at least one dispatched message")
	}
	return n.sends[len(n.sends)-1]
}

func (n *mockNotifier) lastCode(t *testing.T) string {
	t.Helper()

	fields := strings.Fields(n.lastSend(t).body)
	return fields[len(fields)-1]
}

func (n *mockNotifier) sendCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.sends)
}

func testConfig() Config {
	cfg := defaultConfig()
	cfg.Challenge.HashCost = bcrypt.MinCost
	return cfg
}

func newTestEngine(t *testing.T, rdb *redis.Client, cfg Config, notifier Notifier) *Engine {
	t.Helper()

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithNotifier(notifier).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return engine
}

// makeDifferentCode returns a code of the same length guaranteed to mismatch.
func makeDifferentCode(code string) string {
	b := []byte(code)
	if b[0] == '9' {
		b[0] = '0'
	} else {
		b[0]++
	}
	return string(b)
}
