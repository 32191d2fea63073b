package uistate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glp-archive/scribe/internal/db"
	"github.com/glp-archive/scribe/internal/domain"
)

// --- Mocks ---

type mockKV struct {
	data    map[string][]byte
	lastTTL time.Duration
	getErr  error
	setErr  error
}

func newMockKV() *mockKV {
	return &mockKV{data: make(map[string][]byte)}
}

func (m *mockKV) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKV) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockKV) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.lastTTL = ttl
	return nil
}

// --- Tests ---

func TestRedis_PutGet(t *testing.T) {
	kv := newMockKV()
	store := NewRedis(kv, "scribe:ui:", time.Hour)
	ctx := context.Background()

	if err := store.Put(ctx, "expanded-folders", []string{"box1", "box2"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if _, ok := kv.data["scribe:ui:expanded-folders"]; !ok {
		t.Fatal("value not stored under prefixed key")
	}
	if kv.lastTTL != time.Hour {
		t.Errorf("ttl: got %v, want 1h", kv.lastTTL)
	}

	got, err := store.Get(ctx, "expanded-folders")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 2 || got[0] != "box1" {
		t.Errorf("values: got %v", got)
	}
}

func TestRedis_GetMissing(t *testing.T) {
	store := NewRedis(newMockKV(), "scribe:ui:", time.Hour)
	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrStateNotFound) {
		t.Fatalf("expected ErrStateNotFound, got %v", err)
	}
}

func TestRedis_GetCorrupted(t *testing.T) {
	kv := newMockKV()
	kv.data["scribe:ui:k"] = []byte("not json")
	store := NewRedis(kv, "scribe:ui:", time.Hour)

	if _, err := store.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected error for corrupted payload")
	}
}

func TestRedis_BackendErrorsPropagate(t *testing.T) {
	kv := newMockKV()
	kv.getErr = errors.New("connection lost")
	store := NewRedis(kv, "scribe:ui:", time.Hour)

	_, err := store.Get(context.Background(), "k")
	if err == nil {
		t.Fatal("expected backend error to propagate")
	}
	if errors.Is(err, domain.ErrStateNotFound) {
		t.Error("backend error must not map to ErrStateNotFound")
	}
}
